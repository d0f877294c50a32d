package colops

import (
	"context"
	"sort"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Rename maps old column names to new ones. Missing old names follow
// OnMissing; a new name colliding with a column that survives the rename
// follows OnExists (warn/ignore skip the colliding pair).
type Rename struct {
	Columns   map[string]string
	OnMissing pipetab.MissingPolicy
	OnExists  pipetab.MissingPolicy
}

func (r *Rename) Name() string { return "rename" }

func (r *Rename) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(r.Name())
	return nil
}

func (r *Rename) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	olds := make([]string, 0, len(r.Columns))
	for old := range r.Columns {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	spec := pipetab.ColumnSpec{Columns: olds, OnMissing: r.OnMissing}
	effective, err := spec.Resolve(r.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}

	// names still present after the renamed-away ones leave
	renamedAway := make(map[string]struct{}, len(effective))
	for _, old := range effective {
		renamedAway[old] = struct{}{}
	}
	var surviving []string
	for _, c := range t.Columns() {
		if _, gone := renamedAway[c]; !gone {
			surviving = append(surviving, c)
		}
	}
	news := make([]string, len(effective))
	for i, old := range effective {
		news[i] = r.Columns[old]
	}
	safe, err := pipetab.CheckExists(r.Name(), r.OnExists, news, surviving)
	if err != nil {
		return nil, err
	}
	safeSet := make(map[string]struct{}, len(safe))
	for _, n := range safe {
		safeSet[n] = struct{}{}
	}

	mapping := make(map[string]string, len(effective))
	for _, old := range effective {
		if _, ok := safeSet[r.Columns[old]]; ok {
			mapping[old] = r.Columns[old]
		}
	}
	if len(mapping) == 0 {
		return t.Select(t.Columns())
	}
	return t.Rename(mapping)
}
