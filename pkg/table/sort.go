package table

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pipetab/pipetab/pkg/errs"
)

// SortKey names a column to sort by and its direction.
type SortKey struct {
	Column     string
	Descending bool
}

// SortBy returns a new Table with rows reordered by the given keys. The
// sort is stable; nulls order last regardless of direction, which matches
// SQLite's default so Sort and Query stages agree.
func (t *Table) SortBy(keys []SortKey) (*Table, error) {
	if len(keys) == 0 {
		return t.Select(t.Columns())
	}
	var missing []string
	arrs := make([]arrow.Array, len(keys))
	for i, k := range keys {
		arr, _, err := t.column(k.Column)
		if err != nil {
			missing = append(missing, k.Column)
			continue
		}
		arrs[i] = arr
	}
	if len(missing) > 0 {
		return nil, errs.NewColumnNotFound("sort", missing)
	}

	idx := make([]int, t.NumRows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for i, k := range keys {
			c := compareAt(arrs[i], idx[a], idx[b])
			if c == 0 {
				continue
			}
			if k.Descending {
				// null-last comparisons are not negated
				if arrs[i].IsNull(idx[a]) || arrs[i].IsNull(idx[b]) {
					return c < 0
				}
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return t.take(idx)
}

// compareAt orders two rows of one array: -1, 0, or 1, nulls last.
func compareAt(arr arrow.Array, i, j int) int {
	ni, nj := arr.IsNull(i), arr.IsNull(j)
	switch {
	case ni && nj:
		return 0
	case ni:
		return 1
	case nj:
		return -1
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return cmpBool(a.Value(i), a.Value(j))
	case *array.Int32:
		return cmpOrdered(a.Value(i), a.Value(j))
	case *array.Int64:
		return cmpOrdered(a.Value(i), a.Value(j))
	case *array.Float32:
		return cmpOrdered(a.Value(i), a.Value(j))
	case *array.Float64:
		return cmpOrdered(a.Value(i), a.Value(j))
	case *array.String:
		return cmpOrdered(a.Value(i), a.Value(j))
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func cmpOrdered[T interface {
	~int32 | ~int64 | ~float32 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// take materializes a new Table gathering rows by index, in order.
func (t *Table) take(idx []int) (*Table, error) {
	mem := memory.NewGoAllocator()
	s := t.rec.Schema()
	arrays := make([]arrow.Array, s.NumFields())
	for c := 0; c < s.NumFields(); c++ {
		gathered, err := gather(t.rec.Column(c), idx, mem)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", s.Field(c).Name, err)
		}
		arrays[c] = gathered
	}
	fields := make([]arrow.Field, s.NumFields())
	for i := range fields {
		fields[i] = s.Field(i)
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, int64(len(idx)))}, nil
}

func gather(arr arrow.Array, idx []int, mem memory.Allocator) (arrow.Array, error) {
	switch a := arr.(type) {
	case *array.Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(a.Value(i))
			}
		}
		return b.NewArray(), nil
	case *array.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, i := range idx {
			if a.IsNull(i) {
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
