// Package table wraps an Apache Arrow record batch as the tabular data
// handle passed between pipeline stages. Stages never mutate a Table in
// place; every operation returns a new handle backed by new (or shared,
// immutable) Arrow arrays.
package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pipetab/pipetab/pkg/errs"
)

// Kind enumerates the supported logical column types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// ParseKind maps a configuration string to a Kind. "int" and "float" are
// accepted as aliases for the widest variant.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool":
		return KindBool, nil
	case "int32":
		return KindInt32, nil
	case "int", "int64":
		return KindInt64, nil
	case "float32":
		return KindFloat32, nil
	case "float", "float64":
		return KindFloat64, nil
	case "string", "utf8":
		return KindString, nil
	default:
		return KindInvalid, fmt.Errorf("unknown column type %q", s)
	}
}

// DataType returns the Arrow data type backing this Kind.
func (k Kind) DataType() arrow.DataType {
	switch k {
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	case KindInt32:
		return arrow.PrimitiveTypes.Int32
	case KindInt64:
		return arrow.PrimitiveTypes.Int64
	case KindFloat32:
		return arrow.PrimitiveTypes.Float32
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64
	case KindString:
		return arrow.BinaryTypes.String
	default:
		return nil
	}
}

func kindOf(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.BOOL:
		return KindBool
	case arrow.INT32:
		return KindInt32
	case arrow.INT64:
		return KindInt64
	case arrow.FLOAT32:
		return KindFloat32
	case arrow.FLOAT64:
		return KindFloat64
	case arrow.STRING:
		return KindString
	default:
		return KindInvalid
	}
}

// Col is a named, typed column used to assemble a Table.
type Col struct {
	Field arrow.Field
	Array arrow.Array
}

// NewCol builds a column from a slice of values. valid marks which entries
// are non-null; nil means all valid. Supported element types: bool, int32,
// int64, float32, float64, string.
func NewCol(name string, values any, valid []bool, mem memory.Allocator) (Col, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	var arr arrow.Array
	switch v := values.(type) {
	case []bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	case []int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	case []int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	case []float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	case []float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	case []string:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(v, valid)
		arr = b.NewArray()
	default:
		return Col{}, fmt.Errorf("unsupported column type %T", values)
	}
	return Col{
		Field: arrow.Field{Name: name, Type: arr.DataType(), Nullable: true},
		Array: arr,
	}, nil
}

// NewNumericCol builds a column of the given numeric kind from float64
// values; integer kinds round to nearest.
func NewNumericCol(name string, kind Kind, vals []float64, valid []bool, mem memory.Allocator) (Col, error) {
	switch kind {
	case KindInt32:
		out := make([]int32, len(vals))
		for i, v := range vals {
			out[i] = int32(math.Round(v))
		}
		return NewCol(name, out, valid, mem)
	case KindInt64:
		out := make([]int64, len(vals))
		for i, v := range vals {
			out[i] = int64(math.Round(v))
		}
		return NewCol(name, out, valid, mem)
	case KindFloat32:
		out := make([]float32, len(vals))
		for i, v := range vals {
			out[i] = float32(v)
		}
		return NewCol(name, out, valid, mem)
	case KindFloat64:
		return NewCol(name, vals, valid, mem)
	default:
		return Col{}, fmt.Errorf("kind %s is not numeric", kind)
	}
}

// Table is an immutable handle to columnar data.
type Table struct {
	rec arrow.Record
}

// New assembles a Table from columns. All columns must share one length
// and carry distinct names.
func New(cols ...Col) (*Table, error) {
	if len(cols) == 0 {
		schema := arrow.NewSchema(nil, nil)
		return &Table{rec: array.NewRecord(schema, nil, 0)}, nil
	}
	nrows := cols[0].Array.Len()
	fields := make([]arrow.Field, len(cols))
	arrays := make([]arrow.Array, len(cols))
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if c.Array.Len() != nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Field.Name, c.Array.Len(), nrows)
		}
		if _, dup := seen[c.Field.Name]; dup {
			return nil, errs.NewColumnExists("new table", []string{c.Field.Name})
		}
		seen[c.Field.Name] = struct{}{}
		fields[i] = c.Field
		arrays[i] = c.Array
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, int64(nrows))}, nil
}

// FromRecord wraps an existing Arrow record, retaining a reference.
func FromRecord(rec arrow.Record) *Table {
	rec.Retain()
	return &Table{rec: rec}
}

// Record exposes the underlying Arrow record for engine-level consumers
// (Parquet writer, adapters). The record stays owned by the Table.
func (t *Table) Record() arrow.Record { return t.rec }

// Release releases the underlying Arrow buffers.
func (t *Table) Release() {
	if t.rec != nil {
		t.rec.Release()
	}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return int(t.rec.NumRows()) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return int(t.rec.NumCols()) }

// Columns returns the column names in schema order.
func (t *Table) Columns() []string {
	s := t.rec.Schema()
	out := make([]string, s.NumFields())
	for i := range out {
		out[i] = s.Field(i).Name
	}
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return len(t.rec.Schema().FieldIndices(name)) > 0
}

// KindOf returns the logical type of the named column.
func (t *Table) KindOf(name string) (Kind, bool) {
	idx := t.rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return KindInvalid, false
	}
	return kindOf(t.rec.Schema().Field(idx[0]).Type), true
}

func (t *Table) column(name string) (arrow.Array, int, error) {
	idx := t.rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return nil, -1, errs.NewColumnNotFound("column lookup", []string{name})
	}
	return t.rec.Column(idx[0]), idx[0], nil
}

// Value returns the cell at (name, row) as a Go value and whether it is
// non-null. Integers come back as int64/int32, floats as float64/float32.
func (t *Table) Value(name string, row int) (any, bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, false, err
	}
	if row < 0 || row >= arr.Len() {
		return nil, false, fmt.Errorf("row %d out of range [0,%d)", row, arr.Len())
	}
	if arr.IsNull(row) {
		return nil, false, nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(row), true, nil
	case *array.Int32:
		return a.Value(row), true, nil
	case *array.Int64:
		return a.Value(row), true, nil
	case *array.Float32:
		return a.Value(row), true, nil
	case *array.Float64:
		return a.Value(row), true, nil
	case *array.String:
		return a.Value(row), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported array type %T", arr)
	}
}

// Validity returns the non-null mask of the named column.
func (t *Table) Validity(name string) ([]bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, err
	}
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = !arr.IsNull(i)
	}
	return valid, nil
}

// Strings extracts a string column with its validity mask.
func (t *Table) Strings(name string) ([]string, []bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	a, ok := arr.(*array.String)
	if !ok {
		return nil, nil, fmt.Errorf("column %s is %s, want string", name, arr.DataType())
	}
	vals := make([]string, a.Len())
	valid := make([]bool, a.Len())
	for i := 0; i < a.Len(); i++ {
		valid[i] = !a.IsNull(i)
		if valid[i] {
			vals[i] = a.Value(i)
		}
	}
	return vals, valid, nil
}

// Float64s extracts a numeric column as float64 with its validity mask.
// Integer and float32 columns are widened.
func (t *Table) Float64s(name string) ([]float64, []bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	vals := make([]float64, arr.Len())
	valid := make([]bool, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		valid[i] = !arr.IsNull(i)
		if !valid[i] {
			continue
		}
		switch a := arr.(type) {
		case *array.Int32:
			vals[i] = float64(a.Value(i))
		case *array.Int64:
			vals[i] = float64(a.Value(i))
		case *array.Float32:
			vals[i] = float64(a.Value(i))
		case *array.Float64:
			vals[i] = a.Value(i)
		default:
			return nil, nil, fmt.Errorf("column %s is %s, want numeric", name, arr.DataType())
		}
	}
	return vals, valid, nil
}

// Int64s extracts an integer column as int64 with its validity mask.
func (t *Table) Int64s(name string) ([]int64, []bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	vals := make([]int64, arr.Len())
	valid := make([]bool, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		valid[i] = !arr.IsNull(i)
		if !valid[i] {
			continue
		}
		switch a := arr.(type) {
		case *array.Int32:
			vals[i] = int64(a.Value(i))
		case *array.Int64:
			vals[i] = a.Value(i)
		default:
			return nil, nil, fmt.Errorf("column %s is %s, want integer", name, arr.DataType())
		}
	}
	return vals, valid, nil
}

// Bools extracts a boolean column with its validity mask.
func (t *Table) Bools(name string) ([]bool, []bool, error) {
	arr, _, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	a, ok := arr.(*array.Boolean)
	if !ok {
		return nil, nil, fmt.Errorf("column %s is %s, want bool", name, arr.DataType())
	}
	vals := make([]bool, a.Len())
	valid := make([]bool, a.Len())
	for i := 0; i < a.Len(); i++ {
		valid[i] = !a.IsNull(i)
		if valid[i] {
			vals[i] = a.Value(i)
		}
	}
	return vals, valid, nil
}

// Select returns a new Table holding exactly the named columns, in the
// given order. The backing arrays are shared, not copied.
func (t *Table) Select(names []string) (*Table, error) {
	var missing []string
	fields := make([]arrow.Field, 0, len(names))
	arrays := make([]arrow.Array, 0, len(names))
	for _, name := range names {
		idx := t.rec.Schema().FieldIndices(name)
		if len(idx) == 0 {
			missing = append(missing, name)
			continue
		}
		fields = append(fields, t.rec.Schema().Field(idx[0]))
		arrays = append(arrays, t.rec.Column(idx[0]))
	}
	if len(missing) > 0 {
		return nil, errs.NewColumnNotFound("select", missing)
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, t.rec.NumRows())}, nil
}

// Drop returns a new Table without the named columns.
func (t *Table) Drop(names []string) (*Table, error) {
	dropped := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropped[n] = struct{}{}
	}
	keep := make([]string, 0, t.NumCols())
	for _, n := range t.Columns() {
		if _, ok := dropped[n]; !ok {
			keep = append(keep, n)
		}
	}
	return t.Select(keep)
}

// Rename returns a new Table with columns renamed per the old→new map.
// Renaming onto a name that survives in the result is a collision.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	var missing []string
	for old := range mapping {
		if !t.HasColumn(old) {
			missing = append(missing, old)
		}
	}
	if len(missing) > 0 {
		return nil, errs.NewColumnNotFound("rename", missing)
	}

	s := t.rec.Schema()
	fields := make([]arrow.Field, s.NumFields())
	seen := make(map[string]struct{}, s.NumFields())
	var collisions []string
	for i := 0; i < s.NumFields(); i++ {
		f := s.Field(i)
		if to, ok := mapping[f.Name]; ok {
			f.Name = to
		}
		if _, dup := seen[f.Name]; dup {
			collisions = append(collisions, f.Name)
		}
		seen[f.Name] = struct{}{}
		fields[i] = f
	}
	if len(collisions) > 0 {
		return nil, errs.NewColumnExists("rename", collisions)
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, t.rec.Columns(), t.rec.NumRows())}, nil
}

// SetColumn returns a new Table with the column replaced in place if its
// name exists, or appended otherwise. The column must match the row count.
func (t *Table) SetColumn(c Col) (*Table, error) {
	if c.Array.Len() != t.NumRows() {
		return nil, fmt.Errorf("column %s has %d rows, want %d", c.Field.Name, c.Array.Len(), t.NumRows())
	}
	s := t.rec.Schema()
	fields := make([]arrow.Field, 0, s.NumFields()+1)
	arrays := make([]arrow.Array, 0, s.NumFields()+1)
	replaced := false
	for i := 0; i < s.NumFields(); i++ {
		if s.Field(i).Name == c.Field.Name {
			fields = append(fields, c.Field)
			arrays = append(arrays, c.Array)
			replaced = true
			continue
		}
		fields = append(fields, s.Field(i))
		arrays = append(arrays, t.rec.Column(i))
	}
	if !replaced {
		fields = append(fields, c.Field)
		arrays = append(arrays, c.Array)
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{rec: array.NewRecord(schema, arrays, t.rec.NumRows())}, nil
}

// Equal reports value equality of two tables (schema and cell contents).
func (t *Table) Equal(o *Table) bool {
	return array.RecordEqual(t.rec, o.rec)
}

// String renders a compact schema summary for logs and debugging.
func (t *Table) String() string {
	parts := make([]string, 0, t.NumCols())
	for _, name := range t.Columns() {
		k, _ := t.KindOf(name)
		parts = append(parts, fmt.Sprintf("%s:%s", name, k))
	}
	return fmt.Sprintf("Table[%d rows](%s)", t.NumRows(), strings.Join(parts, ", "))
}
