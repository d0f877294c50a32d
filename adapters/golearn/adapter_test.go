package golearn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/table"
)

func TestRoundTrip(t *testing.T) {
	x, err := table.NewCol("x", []float64{1.5, 2.5, 3.5}, nil, nil)
	require.NoError(t, err)
	label, err := table.NewCol("label", []string{"a", "b", "a"}, nil, nil)
	require.NoError(t, err)
	tbl, err := table.New(x, label)
	require.NoError(t, err)

	inst, err := ToDenseInstances(tbl)
	require.NoError(t, err)
	_, rows := inst.Size()
	assert.Equal(t, 3, rows)

	back, err := FromDenseInstances(inst)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "label"}, back.Columns())

	vals, _, err := back.Float64s("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, vals)
	labels, _, err := back.Strings("label")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, labels)
}

func TestBoolColumnsBecomeFloats(t *testing.T) {
	flag, err := table.NewCol("flag", []bool{true, false}, nil, nil)
	require.NoError(t, err)
	tbl, err := table.New(flag)
	require.NoError(t, err)

	inst, err := ToDenseInstances(tbl)
	require.NoError(t, err)
	back, err := FromDenseInstances(inst)
	require.NoError(t, err)

	vals, _, err := back.Float64s("flag")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, vals)
}
