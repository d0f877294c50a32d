package export

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// JSONL writes one JSON object per row. Null cells become JSON nulls.
type JSONL struct {
	Path string
}

func (j *JSONL) Export(ctx context.Context, t *table.Table) error {
	if err := prepDest(j.Path); err != nil {
		return err
	}
	f, err := os.Create(j.Path)
	if err != nil {
		return errors.Wrapf(err, "create %s", j.Path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	names := t.Columns()
	obj := make(map[string]any, len(names))
	for i := 0; i < t.NumRows(); i++ {
		for _, name := range names {
			v, ok, err := t.Value(name, i)
			if err != nil {
				return err
			}
			if !ok {
				obj[name] = nil
				continue
			}
			obj[name] = v
		}
		if err := enc.Encode(obj); err != nil {
			return errors.Wrapf(err, "write %s", j.Path)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", j.Path)
	}
	logging.L.Infow("exported jsonl", "path", j.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return nil
}
