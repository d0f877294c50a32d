// Package colops holds the stateless schema-level transformers: casting,
// column selection, sorting, null propagation, renaming, and memory
// shrinking. All columnar work is delegated to the table package.
package colops

import (
	"context"
	"sort"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Cast converts named columns to target kinds.
type Cast struct {
	Columns   map[string]table.Kind
	OnMissing pipetab.MissingPolicy
}

// NewCast parses the column→type mapping, failing on unknown type names.
func NewCast(columns map[string]string, onMissing pipetab.MissingPolicy) (*Cast, error) {
	kinds := make(map[string]table.Kind, len(columns))
	for col, typ := range columns {
		k, err := table.ParseKind(typ)
		if err != nil {
			return nil, err
		}
		kinds[col] = k
	}
	return &Cast{Columns: kinds, OnMissing: onMissing}, nil
}

func (c *Cast) Name() string { return "cast" }

func (c *Cast) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(c.Name())
	return nil
}

func (c *Cast) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	requested := make([]string, 0, len(c.Columns))
	for col := range c.Columns {
		requested = append(requested, col)
	}
	sort.Strings(requested)

	spec := pipetab.ColumnSpec{Columns: requested, OnMissing: c.OnMissing}
	effective, err := spec.Resolve(c.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	cur := t
	for _, col := range effective {
		from, _ := cur.KindOf(col)
		to := c.Columns[col]
		if from == to {
			continue
		}
		next, err := cur.Cast(col, to)
		if err != nil {
			return nil, err
		}
		logging.L.Debugw("cast column", "column", col, "from", from.String(), "to", to.String())
		cur = next
	}
	return cur, nil
}
