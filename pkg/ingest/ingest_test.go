package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/ingest"
	"github.com/pipetab/pipetab/pkg/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVInfersTypes(t *testing.T) {
	path := writeFile(t, "in.csv",
		"id,score,active,city\n1,1.5,true,boston\n2,2.5,false,denver\n")
	ing := &ingest.CSV{Path: path}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "score", "active", "city"}, tbl.Columns())
	kind, _ := tbl.KindOf("id")
	assert.Equal(t, table.KindInt64, kind)
	kind, _ = tbl.KindOf("score")
	assert.Equal(t, table.KindFloat64, kind)
	kind, _ = tbl.KindOf("active")
	assert.Equal(t, table.KindBool, kind)
	kind, _ = tbl.KindOf("city")
	assert.Equal(t, table.KindString, kind)
}

func TestCSVEmptyCellsBecomeNulls(t *testing.T) {
	path := writeFile(t, "in.csv", "a,b\n1,x\n,y\n")
	ing := &ingest.CSV{Path: path}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	valid, err := tbl.Validity("a")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, valid)
	kind, _ := tbl.KindOf("a")
	assert.Equal(t, table.KindInt64, kind)
}

func TestCSVMixedColumnFallsBackToString(t *testing.T) {
	path := writeFile(t, "in.csv", "a\n1\nx\n")
	ing := &ingest.CSV{Path: path}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	kind, _ := tbl.KindOf("a")
	assert.Equal(t, table.KindString, kind)
}

func TestCSVCustomDelimiter(t *testing.T) {
	path := writeFile(t, "in.csv", "a;b\n1;2\n")
	ing := &ingest.CSV{Path: path, Delimiter: ';'}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestCSVMissingFile(t *testing.T) {
	ing := &ingest.CSV{Path: filepath.Join(t.TempDir(), "nope.csv")}
	_, err := ing.Ingest(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsDataNotFound(err))
}

func TestJSONLUnionOfKeys(t *testing.T) {
	path := writeFile(t, "in.jsonl",
		`{"id":1,"name":"ada"}
{"id":2,"score":3.5}
{"id":3,"name":"bob","score":4}
`)
	ing := &ingest.JSONL{Path: path}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.ElementsMatch(t, []string{"id", "name", "score"}, tbl.Columns())

	kind, _ := tbl.KindOf("id")
	assert.Equal(t, table.KindInt64, kind)
	kind, _ = tbl.KindOf("score")
	assert.Equal(t, table.KindFloat64, kind)

	valid, err := tbl.Validity("name")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, valid)
}

func TestJSONLNullAndMissingAgree(t *testing.T) {
	path := writeFile(t, "in.jsonl",
		`{"a":1,"b":null}
{"a":2}
`)
	ing := &ingest.JSONL{Path: path}
	tbl, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	valid, err := tbl.Validity("b")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false}, valid)
}

func TestJSONLMissingFile(t *testing.T) {
	ing := &ingest.JSONL{Path: "/does/not/exist.jsonl"}
	_, err := ing.Ingest(context.Background())
	assert.True(t, errs.IsDataNotFound(err))
}

func TestJSONLBadLineReportsLineNumber(t *testing.T) {
	path := writeFile(t, "in.jsonl", `{"a":1}
not json
`)
	ing := &ingest.JSONL{Path: path}
	_, err := ing.Ingest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParquetMissingFile(t *testing.T) {
	ing := &ingest.Parquet{Path: "/does/not/exist.parquet"}
	_, err := ing.Ingest(context.Background())
	assert.True(t, errs.IsDataNotFound(err))
}
