package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/export"
	"github.com/pipetab/pipetab/pkg/ingest"
	"github.com/pipetab/pipetab/pkg/table"
)

func mkTable(t *testing.T) *table.Table {
	t.Helper()
	id, err := table.NewCol("id", []int64{1, 2, 3}, nil, nil)
	require.NoError(t, err)
	score, err := table.NewCol("score", []float64{1.5, 0, 3.25}, []bool{true, false, true}, nil)
	require.NoError(t, err)
	city, err := table.NewCol("city", []string{"boston", "denver", "austin"}, nil, nil)
	require.NoError(t, err)
	tbl, err := table.New(id, score, city)
	require.NoError(t, err)
	return tbl
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	exp := &export.CSV{Path: path}
	require.NoError(t, exp.Export(context.Background(), mkTable(t)))

	ing := &ingest.CSV{Path: path}
	got, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "score", "city"}, got.Columns())
	assert.Equal(t, 3, got.NumRows())
	valid, err := got.Validity("score")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, valid)
	vals, _, err := got.Float64s("score")
	require.NoError(t, err)
	assert.Equal(t, 3.25, vals[2])
}

func TestCSVCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "out.csv")
	exp := &export.CSV{Path: path}
	require.NoError(t, exp.Export(context.Background(), mkTable(t)))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	exp := &export.JSONL{Path: path}
	require.NoError(t, exp.Export(context.Background(), mkTable(t)))

	ing := &ingest.JSONL{Path: path}
	got, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
	assert.ElementsMatch(t, []string{"id", "score", "city"}, got.Columns())
	valid, err := got.Validity("score")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, valid)
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	exp := &export.Parquet{Path: path}
	want := mkTable(t)
	require.NoError(t, exp.Export(context.Background(), want))

	ing := &ingest.Parquet{Path: path}
	got, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want.Columns(), got.Columns())
	assert.Equal(t, want.NumRows(), got.NumRows())
	vals, valid, err := got.Float64s("score")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, valid)
	assert.Equal(t, 1.5, vals[0])
	cities, _, err := got.Strings("city")
	require.NoError(t, err)
	assert.Equal(t, []string{"boston", "denver", "austin"}, cities)
}

func TestParquetCompressionOptions(t *testing.T) {
	for _, comp := range []string{"", "snappy", "gzip", "zstd", "uncompressed"} {
		path := filepath.Join(t.TempDir(), "out.parquet")
		exp := &export.Parquet{Path: path, Compression: comp}
		require.NoError(t, exp.Export(context.Background(), mkTable(t)), comp)

		ing := &ingest.Parquet{Path: path}
		got, err := ing.Ingest(context.Background())
		require.NoError(t, err, comp)
		assert.Equal(t, 3, got.NumRows(), comp)
	}
}
