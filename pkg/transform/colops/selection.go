package colops

import (
	"context"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// ColumnSelection keeps the effective columns of its spec, in requested
// order, dropping everything else.
type ColumnSelection struct {
	Spec pipetab.ColumnSpec
}

func (s *ColumnSelection) Name() string { return "column_selection" }

func (s *ColumnSelection) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(s.Name())
	return nil
}

func (s *ColumnSelection) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	effective, err := s.Spec.Resolve(s.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	out, err := t.Select(effective)
	if err != nil {
		return nil, err
	}
	logging.L.Debugw("selected columns", "before", t.NumCols(), "after", out.NumCols())
	return out, nil
}
