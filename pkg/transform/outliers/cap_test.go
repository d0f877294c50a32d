package outliers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
	"github.com/pipetab/pipetab/pkg/transform/outliers"
)

func TestCapClampsAndPreservesKind(t *testing.T) {
	c, err := table.NewCol("n", []int64{-5, 50, 500, 0}, []bool{true, true, true, false}, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	low, high := 0.0, 100.0
	tr := &outliers.Cap{Column: "n", Min: &low, Max: &high}
	out, err := pipetab.FitTransform(context.Background(), tr, tbl)
	require.NoError(t, err)

	vals, valid, err := out.Int64s("n")
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 50, 100}, vals[:3])
	assert.False(t, valid[3])
	kind, _ := out.KindOf("n")
	assert.Equal(t, table.KindInt64, kind)
}

func TestCapNoChangeReturnsEqualTable(t *testing.T) {
	c, err := table.NewCol("n", []float64{1, 2}, nil, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	low := 0.0
	tr := &outliers.Cap{Column: "n", Min: &low}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.True(t, out.Equal(tbl))
}
