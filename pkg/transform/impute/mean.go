package impute

import (
	"context"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Mean fills nulls in a numeric column with the column mean learned
// during Fit. Transform before Fit fails with a NotFittedError.
type Mean struct {
	Column    string
	OnMissing pipetab.MissingPolicy

	fitted bool
	fill   float64
}

func (m *Mean) Name() string { return "impute_mean" }

func (m *Mean) Fit(ctx context.Context, t *table.Table) error {
	spec := pipetab.ColumnSpec{Columns: []string{m.Column}, OnMissing: m.OnMissing}
	effective, err := spec.Resolve(m.Name(), t.Columns())
	if err != nil {
		return err
	}
	if len(effective) == 0 {
		m.fitted = true
		m.fill = 0
		return nil
	}
	vals, valid, err := t.Float64s(m.Column)
	if err != nil {
		return err
	}
	var sum float64
	var n int
	for i, v := range vals {
		if valid[i] {
			sum += v
			n++
		}
	}
	if n > 0 {
		m.fill = sum / float64(n)
	}
	m.fitted = true
	logging.L.Debugw("fitted imputer", "transformer", m.Name(), "column", m.Column, "fill", m.fill)
	return nil
}

func (m *Mean) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	if !m.fitted {
		return nil, errs.NewNotFitted(m.Name())
	}
	spec := pipetab.ColumnSpec{Columns: []string{m.Column}, OnMissing: m.OnMissing}
	effective, err := spec.Resolve(m.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}
	return fillNumeric(t, m.Column, m.fill)
}
