package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// CSV reads a comma-separated file with a header row. Column types are
// inferred per column over the whole file (bool, then int64, then
// float64, falling back to string); empty cells become nulls.
type CSV struct {
	Path      string
	Delimiter rune
	Comment   rune
}

func (c *CSV) Ingest(ctx context.Context) (*table.Table, error) {
	if err := statSource(c.Path); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", c.Path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if c.Delimiter != 0 {
		r.Comma = c.Delimiter
	}
	if c.Comment != 0 {
		r.Comment = c.Comment
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", c.Path)
	}
	if len(records) == 0 {
		return table.New()
	}
	header := records[0]
	rows := records[1:]

	cols := make([]table.Col, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		col, err := inferColumn(name, cells)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", name)
		}
		cols[j] = col
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	logging.L.Infow("ingested csv", "path", c.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return t, nil
}

// inferColumn picks the narrowest kind that admits every non-empty cell.
func inferColumn(name string, cells []string) (table.Col, error) {
	valid := make([]bool, len(cells))
	isBool, isInt, isFloat := true, true, true
	for i, s := range cells {
		if s == "" {
			continue
		}
		valid[i] = true
		if isBool {
			if s != "true" && s != "false" {
				isBool = false
			}
		}
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
	}
	switch {
	case isBool:
		vals := make([]bool, len(cells))
		for i, s := range cells {
			if valid[i] {
				vals[i] = s == "true"
			}
		}
		return table.NewCol(name, vals, valid, nil)
	case isInt:
		vals := make([]int64, len(cells))
		for i, s := range cells {
			if valid[i] {
				vals[i], _ = strconv.ParseInt(s, 10, 64)
			}
		}
		return table.NewCol(name, vals, valid, nil)
	case isFloat:
		vals := make([]float64, len(cells))
		for i, s := range cells {
			if valid[i] {
				vals[i], _ = strconv.ParseFloat(s, 64)
			}
		}
		return table.NewCol(name, vals, valid, nil)
	default:
		return table.NewCol(name, cells, valid, nil)
	}
}
