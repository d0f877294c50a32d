// Package golearn converts between Tables and
// github.com/sjwhitworth/golearn/base DenseInstances.
package golearn

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	"github.com/pipetab/pipetab/pkg/table"
)

// ToDenseInstances converts a Table into golearn DenseInstances. Numeric
// and bool columns become float attributes, string columns categorical.
// The last column is registered as the class attribute.
func ToDenseInstances(t *table.Table) (*base.DenseInstances, error) {
	names := t.Columns()
	attrs := make([]base.Attribute, len(names))
	for i, name := range names {
		kind, _ := t.KindOf(name)
		switch kind {
		case table.KindString:
			ca := new(base.CategoricalAttribute)
			ca.SetName(name)
			attrs[i] = ca
		default:
			attrs[i] = base.NewFloatAttribute(name)
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(t.NumRows()); err != nil {
		return nil, err
	}

	for i, name := range names {
		kind, _ := t.KindOf(name)
		if kind == table.KindString {
			vals, valid, err := t.Strings(name)
			if err != nil {
				return nil, err
			}
			for r, v := range vals {
				if valid[r] {
					inst.Set(specs[i], r, base.Attribute.GetSysValFromString(attrs[i], v))
				}
			}
			continue
		}
		vals, valid, err := numericValues(t, name, kind)
		if err != nil {
			return nil, err
		}
		for r, v := range vals {
			if valid[r] {
				inst.Set(specs[i], r, base.PackFloatToBytes(v))
			}
		}
	}
	if len(attrs) > 0 {
		if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func numericValues(t *table.Table, name string, kind table.Kind) ([]float64, []bool, error) {
	if kind == table.KindBool {
		bools, valid, err := t.Bools(name)
		if err != nil {
			return nil, nil, err
		}
		vals := make([]float64, len(bools))
		for i, b := range bools {
			if b {
				vals[i] = 1
			}
		}
		return vals, valid, nil
	}
	return t.Float64s(name)
}

// FromDenseInstances converts golearn DenseInstances into a Table. Float
// attributes become float64 columns, everything else string.
func FromDenseInstances(inst *base.DenseInstances) (*table.Table, error) {
	attrs := inst.AllAttributes()
	_, nrows := inst.Size()
	cols := make([]table.Col, len(attrs))
	for i, a := range attrs {
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.GetName(), err)
		}
		if _, ok := a.(*base.FloatAttribute); ok {
			vals := make([]float64, nrows)
			for r := 0; r < nrows; r++ {
				vals[r] = base.UnpackBytesToFloat(inst.Get(spec, r))
			}
			col, err := table.NewCol(a.GetName(), vals, nil, nil)
			if err != nil {
				return nil, err
			}
			cols[i] = col
			continue
		}
		vals := make([]string, nrows)
		for r := 0; r < nrows; r++ {
			vals[r] = base.Attribute.GetStringFromSysVal(a, inst.Get(spec, r))
		}
		col, err := table.NewCol(a.GetName(), vals, nil, nil)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return table.New(cols...)
}
