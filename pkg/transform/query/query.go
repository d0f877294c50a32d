// Package query runs SQL over a table by handing it to an in-memory
// SQLite database. SQL semantics (dialect, functions, NULL handling) are
// SQLite's; this package only moves data across.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// DefaultTableName is the name the input table is exposed under.
const DefaultTableName = "self"

// Query executes SQL against the input table. Column types in the result
// follow SQLite's affinity: booleans come back as integers.
type Query struct {
	SQL   string
	Table string
}

// New creates a Query transformer. tableName defaults to "self".
func New(sqlText, tableName string) (*Query, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, errors.New("query: empty sql")
	}
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &Query{SQL: sqlText, Table: tableName}, nil
}

func (q *Query) Name() string { return "query" }

func (q *Query) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(q.Name())
	return nil
}

func (q *Query) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "query: open sqlite")
	}
	defer func() { _ = db.Close() }()

	if err := q.load(ctx, db, t); err != nil {
		return nil, err
	}
	out, err := q.read(ctx, db)
	if err != nil {
		return nil, err
	}
	logging.L.Debugw("query executed",
		"rows_in", t.NumRows(), "rows_out", out.NumRows(),
		"cols_in", t.NumCols(), "cols_out", out.NumCols())
	return out, nil
}

func (q *Query) load(ctx context.Context, db *sql.DB, t *table.Table) error {
	cols := t.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		kind, _ := t.KindOf(c)
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), sqliteType(kind))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(q.Table), strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return errors.Wrap(err, "query: create table")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "query: begin")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(q.Table), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "query: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	row := make([]any, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range cols {
			v, valid, err := t.Value(c, i)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			if !valid {
				row[j] = nil
			} else {
				row[j] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "query: insert row %d", i)
		}
	}
	return errors.Wrap(tx.Commit(), "query: commit")
}

func (q *Query) read(ctx context.Context, db *sql.DB) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, q.SQL)
	if err != nil {
		return nil, errors.Wrap(err, "query: execute")
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "query: columns")
	}
	var data [][]any
	for rows.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "query: scan")
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query: rows")
	}
	return buildTable(names, data)
}

// buildTable infers one kind per result column from the driver values and
// assembles an Arrow table. Integers stay int64 unless a float appears, in
// which case the column widens to float64; anything mixed with text
// becomes a string column.
func buildTable(names []string, data [][]any) (*table.Table, error) {
	cols := make([]table.Col, len(names))
	for j, name := range names {
		var hasInt, hasFloat, hasText bool
		for i := range data {
			switch data[i][j].(type) {
			case nil:
			case int64:
				hasInt = true
			case float64:
				hasFloat = true
			case bool:
				hasInt = true
			default:
				hasText = true
			}
		}
		_ = hasInt
		var col table.Col
		var err error
		switch {
		case hasText:
			vals := make([]string, len(data))
			valid := make([]bool, len(data))
			for i := range data {
				if data[i][j] == nil {
					continue
				}
				valid[i] = true
				vals[i] = cellString(data[i][j])
			}
			col, err = table.NewCol(name, vals, valid, nil)
		case hasFloat:
			vals := make([]float64, len(data))
			valid := make([]bool, len(data))
			for i := range data {
				switch v := data[i][j].(type) {
				case float64:
					vals[i], valid[i] = v, true
				case int64:
					vals[i], valid[i] = float64(v), true
				case bool:
					valid[i] = true
					if v {
						vals[i] = 1
					}
				}
			}
			col, err = table.NewCol(name, vals, valid, nil)
		default:
			vals := make([]int64, len(data))
			valid := make([]bool, len(data))
			for i := range data {
				switch v := data[i][j].(type) {
				case int64:
					vals[i], valid[i] = v, true
				case bool:
					valid[i] = true
					if v {
						vals[i] = 1
					}
				}
			}
			col, err = table.NewCol(name, vals, valid, nil)
		}
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return table.New(cols...)
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sqliteType(k table.Kind) string {
	switch k {
	case table.KindBool, table.KindInt32, table.KindInt64:
		return "INTEGER"
	case table.KindFloat32, table.KindFloat64:
		return "REAL"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Register adds the query transformer to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "query",
		Kind:        pipetab.CapTransformer,
		Description: "run SQL over the table via in-memory SQLite",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				SQL   string `mapstructure:"sql"`
				Table string `mapstructure:"table"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return New(opts.SQL, opts.Table)
		},
	})
}
