package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Cast returns a new Table with the named column converted to the target
// kind. Nulls stay null; empty strings parse to null; an unparseable value
// fails the whole cast with its row index.
func (t *Table) Cast(name string, to Kind) (*Table, error) {
	arr, pos, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if kindOf(arr.DataType()) == to {
		return t.Select(t.Columns())
	}

	mem := memory.NewGoAllocator()
	out, err := castArray(arr, to, mem)
	if err != nil {
		return nil, fmt.Errorf("cast column %s to %s: %w", name, to, err)
	}

	s := t.rec.Schema()
	fields := make([]arrow.Field, s.NumFields())
	arrays := make([]arrow.Array, s.NumFields())
	for i := 0; i < s.NumFields(); i++ {
		fields[i] = s.Field(i)
		arrays[i] = t.rec.Column(i)
	}
	fields[pos] = arrow.Field{Name: name, Type: to.DataType(), Nullable: true}
	arrays[pos] = out
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, t.rec.NumRows())}, nil
}

func castArray(arr arrow.Array, to Kind, mem memory.Allocator) (arrow.Array, error) {
	switch to {
	case KindString:
		return castToString(arr, mem)
	case KindInt32, KindInt64:
		return castToInt(arr, to, mem)
	case KindFloat32, KindFloat64:
		return castToFloat(arr, to, mem)
	case KindBool:
		return castToBool(arr, mem)
	default:
		return nil, fmt.Errorf("unsupported target kind %s", to)
	}
}

func castToString(arr arrow.Array, mem memory.Allocator) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		switch a := arr.(type) {
		case *array.Boolean:
			b.Append(strconv.FormatBool(a.Value(i)))
		case *array.Int32:
			b.Append(strconv.FormatInt(int64(a.Value(i)), 10))
		case *array.Int64:
			b.Append(strconv.FormatInt(a.Value(i), 10))
		case *array.Float32:
			b.Append(strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32))
		case *array.Float64:
			b.Append(strconv.FormatFloat(a.Value(i), 'g', -1, 64))
		case *array.String:
			b.Append(a.Value(i))
		default:
			return nil, fmt.Errorf("cannot cast %s to string", arr.DataType())
		}
	}
	return b.NewArray(), nil
}

func castToInt(arr arrow.Array, to Kind, mem memory.Allocator) (arrow.Array, error) {
	var append64 func(v int64) error
	var b64 *array.Int64Builder
	var b32 *array.Int32Builder
	var appendNull func()
	var newArray func() arrow.Array
	if to == KindInt64 {
		b64 = array.NewInt64Builder(mem)
		defer b64.Release()
		append64 = func(v int64) error { b64.Append(v); return nil }
		appendNull = b64.AppendNull
		newArray = func() arrow.Array { return b64.NewArray() }
	} else {
		b32 = array.NewInt32Builder(mem)
		defer b32.Release()
		append64 = func(v int64) error {
			if v > 1<<31-1 || v < -(1<<31) {
				return fmt.Errorf("value %d overflows int32", v)
			}
			b32.Append(int32(v))
			return nil
		}
		appendNull = b32.AppendNull
		newArray = func() arrow.Array { return b32.NewArray() }
	}

	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			appendNull()
			continue
		}
		var v int64
		switch a := arr.(type) {
		case *array.Boolean:
			if a.Value(i) {
				v = 1
			}
		case *array.Int32:
			v = int64(a.Value(i))
		case *array.Int64:
			v = a.Value(i)
		case *array.Float32:
			v = int64(a.Value(i))
		case *array.Float64:
			v = int64(a.Value(i))
		case *array.String:
			s := strings.TrimSpace(a.Value(i))
			if s == "" {
				appendNull()
				continue
			}
			parsed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			v = parsed
		default:
			return nil, fmt.Errorf("cannot cast %s to %s", arr.DataType(), to)
		}
		if err := append64(v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return newArray(), nil
}

func castToFloat(arr arrow.Array, to Kind, mem memory.Allocator) (arrow.Array, error) {
	var b64 *array.Float64Builder
	var b32 *array.Float32Builder
	var appendF func(v float64)
	var appendNull func()
	var newArray func() arrow.Array
	if to == KindFloat64 {
		b64 = array.NewFloat64Builder(mem)
		defer b64.Release()
		appendF = func(v float64) { b64.Append(v) }
		appendNull = b64.AppendNull
		newArray = func() arrow.Array { return b64.NewArray() }
	} else {
		b32 = array.NewFloat32Builder(mem)
		defer b32.Release()
		appendF = func(v float64) { b32.Append(float32(v)) }
		appendNull = b32.AppendNull
		newArray = func() arrow.Array { return b32.NewArray() }
	}

	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			appendNull()
			continue
		}
		switch a := arr.(type) {
		case *array.Boolean:
			if a.Value(i) {
				appendF(1)
			} else {
				appendF(0)
			}
		case *array.Int32:
			appendF(float64(a.Value(i)))
		case *array.Int64:
			appendF(float64(a.Value(i)))
		case *array.Float32:
			appendF(float64(a.Value(i)))
		case *array.Float64:
			appendF(a.Value(i))
		case *array.String:
			s := strings.TrimSpace(a.Value(i))
			if s == "" {
				appendNull()
				continue
			}
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			appendF(parsed)
		default:
			return nil, fmt.Errorf("cannot cast %s to %s", arr.DataType(), to)
		}
	}
	return newArray(), nil
}

func castToBool(arr arrow.Array, mem memory.Allocator) (arrow.Array, error) {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		switch a := arr.(type) {
		case *array.Boolean:
			b.Append(a.Value(i))
		case *array.Int32:
			b.Append(a.Value(i) != 0)
		case *array.Int64:
			b.Append(a.Value(i) != 0)
		case *array.Float32:
			b.Append(a.Value(i) != 0)
		case *array.Float64:
			b.Append(a.Value(i) != 0)
		case *array.String:
			s := strings.TrimSpace(a.Value(i))
			if s == "" {
				b.AppendNull()
				continue
			}
			parsed, err := strconv.ParseBool(strings.ToLower(s))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			b.Append(parsed)
		default:
			return nil, fmt.Errorf("cannot cast %s to bool", arr.DataType())
		}
	}
	return b.NewArray(), nil
}
