package table

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pipetab/pipetab/pkg/errs"
)

// NullifyRows returns a new Table where, in each of the named columns, the
// rows marked true in mask become null. Other columns are shared untouched.
func (t *Table) NullifyRows(names []string, mask []bool) (*Table, error) {
	if len(mask) != t.NumRows() {
		return nil, fmt.Errorf("mask has %d entries, table has %d rows", len(mask), t.NumRows())
	}
	targets := make(map[string]struct{}, len(names))
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
			continue
		}
		targets[n] = struct{}{}
	}
	if len(missing) > 0 {
		return nil, errs.NewColumnNotFound("nullify", missing)
	}

	mem := memory.NewGoAllocator()
	s := t.rec.Schema()
	arrays := make([]arrow.Array, s.NumFields())
	for c := 0; c < s.NumFields(); c++ {
		arr := t.rec.Column(c)
		if _, ok := targets[s.Field(c).Name]; !ok {
			arrays[c] = arr
			continue
		}
		nulled, err := nullify(arr, mask, mem)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", s.Field(c).Name, err)
		}
		arrays[c] = nulled
	}
	fields := make([]arrow.Field, s.NumFields())
	for i := range fields {
		fields[i] = s.Field(i)
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, t.rec.NumRows())}, nil
}

func nullify(arr arrow.Array, mask []bool, mem memory.Allocator) (arrow.Array, error) {
	switch a := arr.(type) {
	case *array.Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if mask[i] || a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	default:
		return nil, fmt.Errorf("unsupported array type %T", arr)
	}
}
