package colops

import (
	"context"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// PropagateNulls nulls out destination columns on every row where any of
// the source columns is null. With no destinations configured, all columns
// other than the sources are nulled: a null key invalidates the row.
type PropagateNulls struct {
	Columns   []string // sources
	To        []string // destinations; empty means all other columns
	OnMissing pipetab.MissingPolicy
}

func (p *PropagateNulls) Name() string { return "propagate_nulls" }

func (p *PropagateNulls) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(p.Name())
	return nil
}

func (p *PropagateNulls) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	srcSpec := pipetab.ColumnSpec{Columns: p.Columns, OnMissing: p.OnMissing}
	sources, err := srcSpec.Resolve(p.Name(), t.Columns())
	if err != nil {
		return nil, err
	}

	var dests []string
	if len(p.To) > 0 {
		dstSpec := pipetab.ColumnSpec{Columns: p.To, OnMissing: p.OnMissing}
		dests, err = dstSpec.Resolve(p.Name(), t.Columns())
		if err != nil {
			return nil, err
		}
	} else {
		srcSet := make(map[string]struct{}, len(sources))
		for _, c := range sources {
			srcSet[c] = struct{}{}
		}
		for _, c := range t.Columns() {
			if _, isSrc := srcSet[c]; !isSrc {
				dests = append(dests, c)
			}
		}
	}
	if len(sources) == 0 || len(dests) == 0 {
		return t.Select(t.Columns())
	}

	mask := make([]bool, t.NumRows())
	hit := 0
	for _, c := range sources {
		valid, err := t.Validity(c)
		if err != nil {
			return nil, err
		}
		for i, ok := range valid {
			if !ok && !mask[i] {
				mask[i] = true
				hit++
			}
		}
	}
	if hit == 0 {
		return t.Select(t.Columns())
	}
	logging.L.Debugw("propagating nulls", "rows", hit, "destinations", len(dests))
	return t.NullifyRows(dests, mask)
}
