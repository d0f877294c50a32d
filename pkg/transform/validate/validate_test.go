package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
	"github.com/pipetab/pipetab/pkg/transform/validate"
)

func TestInSetPassesAndFails(t *testing.T) {
	c, err := table.NewCol("state", []string{"NY", "CA", ""}, []bool{true, true, false}, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	ok := validate.NewInSet("state", []string{"NY", "CA"}, "")
	out, err := pipetab.FitTransform(context.Background(), ok, tbl)
	require.NoError(t, err)
	assert.True(t, out.Equal(tbl))

	bad := validate.NewInSet("state", []string{"NY"}, "")
	_, err = bad.Transform(context.Background(), tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 values outside allowed set")
}

func TestRangeBounds(t *testing.T) {
	c, err := table.NewCol("score", []float64{10, 50, 0}, []bool{true, true, false}, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	low, high := 0.0, 100.0
	tr := &validate.Range{Column: "score", Min: &low, Max: &high}
	_, err = tr.Transform(context.Background(), tbl)
	require.NoError(t, err)

	tight := 20.0
	tr = &validate.Range{Column: "score", Max: &tight}
	_, err = tr.Transform(context.Background(), tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 out-of-range values")
}

func TestRangeMissingColumnIgnore(t *testing.T) {
	c, err := table.NewCol("a", []float64{1}, nil, nil)
	require.NoError(t, err)
	tbl, err := table.New(c)
	require.NoError(t, err)

	tr := &validate.Range{Column: "colX", OnMissing: pipetab.MissingIgnore}
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	assert.True(t, out.Equal(tbl))
}
