package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// JSONL reads newline-delimited JSON objects. Columns are the union of
// keys across all rows, in first-appearance order; a key absent from a
// row (or explicitly null) becomes a null cell. Numeric columns land as
// int64 when every value is integral, float64 otherwise.
type JSONL struct {
	Path string
}

func (j *JSONL) Ingest(ctx context.Context) (*table.Table, error) {
	if err := statSource(j.Path); err != nil {
		return nil, err
	}
	f, err := os.Open(j.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", j.Path)
	}
	defer f.Close()

	var (
		order []string
		rows  []map[string]any
	)
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, errors.Wrapf(err, "%s: line %d", j.Path, line)
		}
		for k := range obj {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				order = append(order, k)
			}
		}
		rows = append(rows, obj)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", j.Path)
	}

	cols := make([]table.Col, 0, len(order))
	for _, name := range order {
		col, err := buildJSONColumn(name, rows)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", name)
		}
		cols = append(cols, col)
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	logging.L.Infow("ingested jsonl", "path", j.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return t, nil
}

// buildJSONColumn types one column from decoded values. Mixed scalar
// types degrade to string.
func buildJSONColumn(name string, rows []map[string]any) (table.Col, error) {
	valid := make([]bool, len(rows))
	hasBool, hasNum, hasString, integral := false, false, false, true
	for i, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		valid[i] = true
		switch x := v.(type) {
		case bool:
			hasBool = true
		case float64:
			hasNum = true
			if x != math.Trunc(x) {
				integral = false
			}
		case string:
			hasString = true
		default:
			return table.Col{}, fmt.Errorf("unsupported value %T", v)
		}
	}
	mixed := 0
	for _, h := range []bool{hasBool, hasNum, hasString} {
		if h {
			mixed++
		}
	}
	switch {
	case mixed > 1 || hasString:
		vals := make([]string, len(rows))
		for i, row := range rows {
			if valid[i] {
				vals[i] = fmt.Sprint(row[name])
			}
		}
		return table.NewCol(name, vals, valid, nil)
	case hasBool:
		vals := make([]bool, len(rows))
		for i, row := range rows {
			if valid[i] {
				vals[i] = row[name].(bool)
			}
		}
		return table.NewCol(name, vals, valid, nil)
	case hasNum && integral:
		vals := make([]int64, len(rows))
		for i, row := range rows {
			if valid[i] {
				vals[i] = int64(row[name].(float64))
			}
		}
		return table.NewCol(name, vals, valid, nil)
	case hasNum:
		vals := make([]float64, len(rows))
		for i, row := range rows {
			if valid[i] {
				vals[i] = row[name].(float64)
			}
		}
		return table.NewCol(name, vals, valid, nil)
	default:
		// every cell null
		return table.NewCol(name, make([]string, len(rows)), valid, nil)
	}
}
