package impute

import (
	"context"
	"sort"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Median fills nulls in a numeric column with the column median learned
// during Fit. Transform before Fit fails with a NotFittedError.
type Median struct {
	Column    string
	OnMissing pipetab.MissingPolicy

	fitted bool
	fill   float64
}

func (m *Median) Name() string { return "impute_median" }

func (m *Median) Fit(ctx context.Context, t *table.Table) error {
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
	present := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			present = append(present, v)
		}
	}
	if len(present) > 0 {
		sort.Float64s(present)
		mid := len(present) / 2
		if len(present)%2 == 0 {
			m.fill = (present[mid-1] + present[mid]) / 2
		} else {
			m.fill = present[mid]
		}
	}
	m.fitted = true
	logging.L.Debugw("fitted imputer", "transformer", m.Name(), "column", m.Column, "fill", m.fill)
	return nil
}

func (m *Median) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
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
