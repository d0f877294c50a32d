package colops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
	"github.com/pipetab/pipetab/pkg/transform/colops"
)

func mustCol(t *testing.T, name string, values any, valid []bool) table.Col {
	t.Helper()
	c, err := table.NewCol(name, values, valid, nil)
	require.NoError(t, err)
	return c
}

func mkTable(t *testing.T, cols ...table.Col) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	require.NoError(t, err)
	return tbl
}

func TestCastTransformsSchema(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "age", []string{"34", "", "29"}, nil),
		mustCol(t, "city", []string{"boston", "chicago", "denver"}, nil),
	)
	tr, err := colops.NewCast(map[string]string{"age": "int64"}, "")
	require.NoError(t, err)

	out, err := pipetab.FitTransform(context.Background(), tr, tbl)
	require.NoError(t, err)
	kind, _ := out.KindOf("age")
	assert.Equal(t, table.KindInt64, kind)
	kind, _ = out.KindOf("city")
	assert.Equal(t, table.KindString, kind)

	_, ok, err := out.Value("age", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCastRejectsUnknownType(t *testing.T) {
	_, err := colops.NewCast(map[string]string{"age": "decimal"}, "")
	assert.Error(t, err)
}

func TestCastMissingColumnRaises(t *testing.T) {
	tbl := mkTable(t, mustCol(t, "a", []int64{1}, nil))
	tr, err := colops.NewCast(map[string]string{"colX": "int64"}, "")
	require.NoError(t, err)
	_, err = tr.Transform(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, errs.IsColumnNotFound(err))
	assert.Contains(t, err.Error(), "colX")
}

func TestColumnSelection(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "col1", []int64{1}, nil),
		mustCol(t, "col2", []int64{2}, nil),
		mustCol(t, "col3", []int64{3}, nil),
	)
	tr := &colops.ColumnSelection{Spec: pipetab.ColumnSpec{Columns: []string{"col2", "col1"}}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"col2", "col1"}, out.Columns())
}

func TestColumnSelectionMissingIgnore(t *testing.T) {
	tbl := mkTable(t, mustCol(t, "col1", []int64{1}, nil))
	tr := &colops.ColumnSelection{Spec: pipetab.ColumnSpec{
		Columns:   []string{"col1", "colX"},
		OnMissing: pipetab.MissingIgnore,
	}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"col1"}, out.Columns())
}

func TestSortTransformer(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "score", []float64{1, 3, 2}, nil),
		mustCol(t, "name", []string{"a", "b", "c"}, nil),
	)
	tr := colops.NewSort([]string{"-score"}, "")
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	names, _, err := out.Strings("name")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names)
}

func TestPropagateNullsDefaultsToAllOtherColumns(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "key", []int64{1, 0, 3}, []bool{true, false, true}),
		mustCol(t, "a", []string{"x", "y", "z"}, nil),
		mustCol(t, "b", []float64{1, 2, 3}, nil),
	)
	tr := &colops.PropagateNulls{Columns: []string{"key"}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)

	for _, col := range []string{"a", "b"} {
		valid, err := out.Validity(col)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false, true}, valid, col)
	}
	// source column keeps its own validity
	valid, err := out.Validity("key")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, valid)
}

func TestPropagateNullsExplicitDestinations(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "key", []int64{0, 1}, []bool{false, true}),
		mustCol(t, "a", []string{"x", "y"}, nil),
		mustCol(t, "b", []string{"p", "q"}, nil),
	)
	tr := &colops.PropagateNulls{Columns: []string{"key"}, To: []string{"b"}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)

	valid, err := out.Validity("a")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, valid)
	valid, err = out.Validity("b")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, valid)
}

func TestShrinkDowncastsLosslessly(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "small", []int64{1, 2, 3}, nil),
		mustCol(t, "big", []int64{1 << 40, 2, 3}, nil),
		mustCol(t, "half", []float64{1.5, 2.5, 3}, nil),
		mustCol(t, "pi", []float64{3.141592653589793, 1, 2}, nil),
	)
	tr := &colops.Shrink{}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)

	kind, _ := out.KindOf("small")
	assert.Equal(t, table.KindInt32, kind)
	kind, _ = out.KindOf("big")
	assert.Equal(t, table.KindInt64, kind)
	kind, _ = out.KindOf("half")
	assert.Equal(t, table.KindFloat32, kind)
	kind, _ = out.KindOf("pi")
	assert.Equal(t, table.KindFloat64, kind)
}

func TestRename(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "a", []int64{1}, nil),
		mustCol(t, "b", []int64{2}, nil),
	)
	tr := &colops.Rename{Columns: map[string]string{"a": "alpha"}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "b"}, out.Columns())
}

func TestRenameCollisionRaises(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "a", []int64{1}, nil),
		mustCol(t, "b", []int64{2}, nil),
	)
	tr := &colops.Rename{Columns: map[string]string{"a": "b"}}
	_, err := tr.Transform(context.Background(), tbl)
	require.Error(t, err)
	var exists *errs.ColumnExistsError
	assert.ErrorAs(t, err, &exists)
}

func TestRenameCollisionIgnoreSkipsPair(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "a", []int64{1}, nil),
		mustCol(t, "b", []int64{2}, nil),
	)
	tr := &colops.Rename{Columns: map[string]string{"a": "b"}, OnExists: pipetab.MissingIgnore}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
}

func TestRenameSwapBothColumns(t *testing.T) {
	tbl := mkTable(t,
		mustCol(t, "a", []int64{1}, nil),
		mustCol(t, "b", []int64{2}, nil),
	)
	tr := &colops.Rename{Columns: map[string]string{"a": "b", "b": "a"}}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, out.Columns())
	v, _, err := out.Value("b", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
