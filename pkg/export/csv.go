package export

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// CSV writes a table as comma-separated text with a header row. Nulls
// become empty cells.
type CSV struct {
	Path      string
	Delimiter rune
}

func (c *CSV) Export(ctx context.Context, t *table.Table) error {
	if err := prepDest(c.Path); err != nil {
		return err
	}
	f, err := os.Create(c.Path)
	if err != nil {
		return errors.Wrapf(err, "create %s", c.Path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if c.Delimiter != 0 {
		w.Comma = c.Delimiter
	}
	names := t.Columns()
	if err := w.Write(names); err != nil {
		return errors.Wrapf(err, "write %s", c.Path)
	}
	row := make([]string, len(names))
	for i := 0; i < t.NumRows(); i++ {
		for j, name := range names {
			v, ok, err := t.Value(name, i)
			if err != nil {
				return err
			}
			if !ok {
				row[j] = ""
				continue
			}
			row[j] = cellText(v)
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write %s", c.Path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush %s", c.Path)
	}
	logging.L.Infow("exported csv", "path", c.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return nil
}
