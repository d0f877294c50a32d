// Package stages assembles the built-in stage catalog into a registry.
package stages

import (
	"context"

	"github.com/pipetab/pipetab/pkg/export"
	"github.com/pipetab/pipetab/pkg/ingest"
	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/profile"
	"github.com/pipetab/pipetab/pkg/table"
	"github.com/pipetab/pipetab/pkg/transform/colops"
	"github.com/pipetab/pipetab/pkg/transform/impute"
	"github.com/pipetab/pipetab/pkg/transform/outliers"
	"github.com/pipetab/pipetab/pkg/transform/query"
	"github.com/pipetab/pipetab/pkg/transform/standardize"
	"github.com/pipetab/pipetab/pkg/transform/validate"
)

// DefaultRegistry returns a registry holding every built-in ingestor,
// transformer, and exporter plus the composition wrappers.
func DefaultRegistry() *pipetab.Registry {
	r := pipetab.NewRegistry()
	pipetab.RegisterCompositionWrappers(r)
	ingest.Register(r)
	export.Register(r)
	colops.Register(r)
	query.Register(r)
	impute.Register(r)
	standardize.Register(r)
	validate.Register(r)
	outliers.Register(r)
	registerProfile(r)
	return r
}

// Profile logs a column summary and passes the table through unchanged.
type Profile struct {
	TopK int
}

func (p *Profile) Name() string { return "profile" }

func (p *Profile) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(p.Name())
	return nil
}

func (p *Profile) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	topK := p.TopK
	if topK <= 0 {
		topK = 5
	}
	profiles, err := profile.Collect(t)
	if err != nil {
		return nil, err
	}
	logging.L.Infow("profiled table", "rows", t.NumRows(), "cols", t.NumCols())
	logging.L.Info(profile.ReportText(profiles, topK))
	return t.Select(t.Columns())
}

func registerProfile(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "profile",
		Kind:        pipetab.CapTransformer,
		Description: "log per-column statistics, leaving the data unchanged",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				TopK int `mapstructure:"top_k"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Profile{TopK: opts.TopK}, nil
		},
	})
}
