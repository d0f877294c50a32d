// Package validate checks column contents without changing them. A failed
// check aborts the pipeline with a descriptive error.
package validate

import (
	"context"
	"fmt"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// InSet verifies that every non-null value of a string column is one of
// the allowed values.
type InSet struct {
	Column    string
	Values    map[string]struct{}
	OnMissing pipetab.MissingPolicy
}

// NewInSet builds an InSet check from a value list.
func NewInSet(column string, values []string, onMissing pipetab.MissingPolicy) *InSet {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return &InSet{Column: column, Values: m, OnMissing: onMissing}
}

func (v *InSet) Name() string { return "validate_in" }

func (v *InSet) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(v.Name())
	return nil
}

func (v *InSet) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	spec := pipetab.ColumnSpec{Columns: []string{v.Column}, OnMissing: v.OnMissing}
	effective, err := spec.Resolve(v.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}
	vals, valid, err := t.Strings(v.Column)
	if err != nil {
		return nil, err
	}
	bad := 0
	for i, s := range vals {
		if !valid[i] {
			continue
		}
		if _, ok := v.Values[s]; !ok {
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("%s: column %s has %d values outside allowed set", v.Name(), v.Column, bad)
	}
	return t.Select(t.Columns())
}

// Range verifies that every non-null value of a numeric column lies within
// [Min, Max]; a nil bound is unbounded on that side.
type Range struct {
	Column    string
	Min       *float64
	Max       *float64
	OnMissing pipetab.MissingPolicy
}

func (r *Range) Name() string { return "validate_range" }

func (r *Range) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(r.Name())
	return nil
}

func (r *Range) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	spec := pipetab.ColumnSpec{Columns: []string{r.Column}, OnMissing: r.OnMissing}
	effective, err := spec.Resolve(r.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}
	vals, valid, err := t.Float64s(r.Column)
	if err != nil {
		return nil, err
	}
	bad := 0
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if (r.Min != nil && v < *r.Min) || (r.Max != nil && v > *r.Max) {
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("%s: column %s has %d out-of-range values", r.Name(), r.Column, bad)
	}
	return t.Select(t.Columns())
}
