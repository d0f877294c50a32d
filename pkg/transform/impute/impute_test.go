package impute_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
	"github.com/pipetab/pipetab/pkg/transform/impute"
)

func numTable(t *testing.T, vals []float64, valid []bool) *table.Table {
	t.Helper()
	c, err := table.NewCol("n", vals, valid, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)
	return tbl
}

func TestConstantFillsStrings(t *testing.T) {
	c, err := table.NewCol("s", []string{"a", "", "c"}, []bool{true, false, true}, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	tr := &impute.Constant{Column: "s", Value: "missing"}
	out, err := pipetab.FitTransform(context.Background(), tr, tbl)
	require.NoError(t, err)
	vals, valid, err := out.Strings("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "missing", "c"}, vals)
	assert.Equal(t, []bool{true, true, true}, valid)
}

func TestConstantFillsIntegersRounded(t *testing.T) {
	c, err := table.NewCol("n", []int64{1, 0, 3}, []bool{true, false, true}, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	tr := &impute.Constant{Column: "n", Value: 2.6}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	vals, _, err := out.Int64s("n")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 3}, vals)
	kind, _ := out.KindOf("n")
	assert.Equal(t, table.KindInt64, kind)
}

func TestConstantMissingColumnIgnore(t *testing.T) {
	tbl := numTable(t, []float64{1}, nil)
	tr := &impute.Constant{Column: "colX", Value: 0.0, OnMissing: pipetab.MissingIgnore}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.True(t, out.Equal(tbl))
}

func TestMeanRequiresFit(t *testing.T) {
	tbl := numTable(t, []float64{1, 2}, nil)
	tr := &impute.Mean{Column: "n"}
	_, err := tr.Transform(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, errs.IsNotFitted(err))
}

func TestMeanFillsWithFittedMean(t *testing.T) {
	tbl := numTable(t, []float64{2, 0, 4}, []bool{true, false, true})
	tr := &impute.Mean{Column: "n"}
	out, err := pipetab.FitTransform(context.Background(), tr, tbl)
	require.NoError(t, err)
	vals, valid, err := out.Float64s("n")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, vals)
	assert.Equal(t, []bool{true, true, true}, valid)
}

func TestMeanFittedValueCarriesToNewData(t *testing.T) {
	train := numTable(t, []float64{10, 20}, nil)
	tr := &impute.Mean{Column: "n"}
	require.NoError(t, tr.Fit(context.Background(), train))

	apply := numTable(t, []float64{0}, []bool{false})
	out, err := tr.Transform(context.Background(), apply)
	require.NoError(t, err)
	vals, _, err := out.Float64s("n")
	require.NoError(t, err)
	assert.Equal(t, []float64{15}, vals)
}

func TestMedianRequiresFit(t *testing.T) {
	tbl := numTable(t, []float64{1}, nil)
	tr := &impute.Median{Column: "n"}
	_, err := tr.Transform(context.Background(), tbl)
	assert.True(t, errs.IsNotFitted(err))
}

func TestMedianOddAndEven(t *testing.T) {
	odd := numTable(t, []float64{5, 1, 3, 0}, []bool{true, true, true, false})
	tr := &impute.Median{Column: "n"}
	out, err := pipetab.FitTransform(context.Background(), tr, odd)
	require.NoError(t, err)
	vals, _, err := out.Float64s("n")
	require.NoError(t, err)
	assert.Equal(t, 3.0, vals[3])

	even := numTable(t, []float64{1, 2, 3, 4, 0}, []bool{true, true, true, true, false})
	tr = &impute.Median{Column: "n"}
	out, err = pipetab.FitTransform(context.Background(), tr, even)
	require.NoError(t, err)
	vals, _, err = out.Float64s("n")
	require.NoError(t, err)
	assert.Equal(t, 2.5, vals[4])
}
