package pipetab

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/pipetab/pipetab/pkg/logging"
)

// Pipeline is one ingest → transform → export run. Transformer is
// optional; when present it is fitted on the ingested table before
// transforming.
type Pipeline struct {
	Ingestor    Ingestor
	Transformer Transformer
	Exporter    Exporter
}

// NewPipeline resolves a pipeline definition: a mapping with "ingestor",
// optional "transformer", and "exporter" entries, each either a live
// object or a configuration record.
func NewPipeline(r *Registry, def map[string]any) (*Pipeline, error) {
	ingCfg, ok := def["ingestor"]
	if !ok {
		return nil, errors.New("pipeline definition needs an ingestor")
	}
	expCfg, ok := def["exporter"]
	if !ok {
		return nil, errors.New("pipeline definition needs an exporter")
	}
	ing, err := r.ResolveIngestor(ingCfg)
	if err != nil {
		return nil, errors.Wrap(err, "ingestor")
	}
	exp, err := r.ResolveExporter(expCfg)
	if err != nil {
		return nil, errors.Wrap(err, "exporter")
	}
	p := &Pipeline{Ingestor: ing, Exporter: exp}
	if trCfg, ok := def["transformer"]; ok {
		tr, err := r.ResolveTransformer(trCfg)
		if err != nil {
			return nil, errors.Wrap(err, "transformer")
		}
		p.Transformer = tr
	}
	return p, nil
}

// Run drives the pipeline once: ingest, fit+transform, export. Stage
// failures surface immediately; nothing is retried.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := logging.L.With("run", runID)
	log.Infow("pipeline start")

	t, err := p.Ingestor.Ingest(ctx)
	if err != nil {
		return errors.Wrap(err, "ingest")
	}
	log.Infow("ingested", "rows", t.NumRows(), "cols", t.NumCols())

	if p.Transformer != nil {
		t, err = FitTransform(ctx, p.Transformer, t)
		if err != nil {
			return errors.Wrap(err, "transform")
		}
		log.Infow("transformed", "rows", t.NumRows(), "cols", t.NumCols())
	}

	if err := p.Exporter.Export(ctx, t); err != nil {
		return errors.Wrap(err, "export")
	}
	log.Infow("pipeline done")
	return nil
}
