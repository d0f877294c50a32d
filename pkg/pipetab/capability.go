// Package pipetab is the orchestration core: capability contracts for
// pipeline stages, a registry that builds stages from configuration
// records, composition wrappers, and the shared missing-column policy.
//
// A pipeline is an Ingestor producing a table, zero or more Transformers
// reshaping it, and an Exporter persisting it. All columnar work is
// delegated to the Arrow-backed table package; this package only wires
// stages together.
package pipetab

import (
	"context"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// Ingestor produces a table. All parameterization happens at construction
// time; Ingest takes no arguments beyond the context.
type Ingestor interface {
	Ingest(ctx context.Context) (*table.Table, error)
}

// Transformer reshapes a table. Transform must not mutate its input and
// returns a new handle. Stateless transformers implement Fit as a logged
// no-op; stateful ones learn parameters in Fit and may refuse Transform
// before it (errs.NotFittedError).
//
// A Transformer is not safe for concurrent Fit/Transform: Fit writes the
// parameter state Transform reads.
type Transformer interface {
	Name() string
	Fit(ctx context.Context, t *table.Table) error
	Transform(ctx context.Context, t *table.Table) (*table.Table, error)
}

// Exporter consumes a table and persists it, creating any required output
// location first.
type Exporter interface {
	Export(ctx context.Context, t *table.Table) error
}

// FitTransform fits tr on t and then transforms t. It is always the exact
// equivalent of the two calls in sequence.
func FitTransform(ctx context.Context, tr Transformer, t *table.Table) (*table.Table, error) {
	if err := tr.Fit(ctx, t); err != nil {
		return nil, err
	}
	return tr.Transform(ctx, t)
}

// NothingToFit emits the stateless-fit diagnostic. Stateless transformers
// call this from Fit so pipeline logs reveal their shape instead of
// silently skipping.
func NothingToFit(name string) {
	logging.L.Infow("nothing to fit", "transformer", name)
}
