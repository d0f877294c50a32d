package colops

import (
	"context"
	"strings"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Sort reorders rows by the given columns. A leading "-" on a column name
// sorts that key descending. The sort is stable; nulls order last.
type Sort struct {
	Keys      []table.SortKey
	OnMissing pipetab.MissingPolicy
}

// NewSort parses "name" / "-name" column specs into sort keys.
func NewSort(columns []string, onMissing pipetab.MissingPolicy) *Sort {
	keys := make([]table.SortKey, 0, len(columns))
	for _, c := range columns {
		if name, ok := strings.CutPrefix(c, "-"); ok {
			keys = append(keys, table.SortKey{Column: name, Descending: true})
		} else {
			keys = append(keys, table.SortKey{Column: c})
		}
	}
	return &Sort{Keys: keys, OnMissing: onMissing}
}

func (s *Sort) Name() string { return "sort" }

func (s *Sort) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(s.Name())
	return nil
}

func (s *Sort) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	requested := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		requested[i] = k.Column
	}
	spec := pipetab.ColumnSpec{Columns: requested, OnMissing: s.OnMissing}
	effective, err := spec.Resolve(s.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(effective))
	for _, c := range effective {
		keep[c] = struct{}{}
	}
	keys := make([]table.SortKey, 0, len(s.Keys))
	for _, k := range s.Keys {
		if _, ok := keep[k.Column]; ok {
			keys = append(keys, k)
		}
	}
	return t.SortBy(keys)
}
