// Package outliers clamps extreme numeric values.
package outliers

import (
	"context"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Cap clamps a numeric column to [Min, Max], preserving the column's
// kind. Nulls pass through untouched; a nil bound is unbounded.
type Cap struct {
	Column    string
	Min       *float64
	Max       *float64
	OnMissing pipetab.MissingPolicy
}

func (c *Cap) Name() string { return "cap_range" }

func (c *Cap) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(c.Name())
	return nil
}

func (c *Cap) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	spec := pipetab.ColumnSpec{Columns: []string{c.Column}, OnMissing: c.OnMissing}
	effective, err := spec.Resolve(c.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}
	kind, _ := t.KindOf(c.Column)
	vals, valid, err := t.Float64s(c.Column)
	if err != nil {
		return nil, err
	}
	changed := 0
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if c.Min != nil && v < *c.Min {
			vals[i] = *c.Min
			changed++
		}
		if c.Max != nil && v > *c.Max {
			vals[i] = *c.Max
			changed++
		}
	}
	if changed == 0 {
		return t.Select(t.Columns())
	}
	col, err := table.NewNumericCol(c.Column, kind, vals, valid, nil)
	if err != nil {
		return nil, err
	}
	return t.SetColumn(col)
}

// Register adds the outlier transformers to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "cap_range",
		Kind:        pipetab.CapTransformer,
		Description: "clamp a numeric column to a closed range",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				Min       *float64              `mapstructure:"min"`
				Max       *float64              `mapstructure:"max"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Cap{Column: opts.Column, Min: opts.Min, Max: opts.Max, OnMissing: opts.OnMissing}, nil
		},
	})
}
