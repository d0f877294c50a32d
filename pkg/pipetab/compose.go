package pipetab

import (
	"context"
	"fmt"
	"strings"

	"github.com/pipetab/pipetab/pkg/table"
)

// Sequential chains transformers: the output of one feeds the next. An
// empty chain is the identity transform.
type Sequential struct {
	steps []Transformer
}

// NewSequential builds a chain from the given steps, in order.
func NewSequential(steps ...Transformer) *Sequential {
	return &Sequential{steps: steps}
}

// Steps returns the chain members in order.
func (s *Sequential) Steps() []Transformer { return s.steps }

func (s *Sequential) Name() string { return "sequential" }

// Fit fits each member against the table as transformed by all prior
// members, matching a streaming pipeline semantic: a member never sees
// data its predecessors would have reshaped away.
func (s *Sequential) Fit(ctx context.Context, t *table.Table) error {
	cur := t
	for i, step := range s.steps {
		if err := step.Fit(ctx, cur); err != nil {
			return fmt.Errorf("fit step %d (%s): %w", i, step.Name(), err)
		}
		if i == len(s.steps)-1 {
			break
		}
		next, err := step.Transform(ctx, cur)
		if err != nil {
			return fmt.Errorf("transform step %d (%s) during fit: %w", i, step.Name(), err)
		}
		cur = next
	}
	return nil
}

// Transform applies each member in order.
func (s *Sequential) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	cur := t
	for i, step := range s.steps {
		next, err := step.Transform(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("transform step %d (%s): %w", i, step.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// String renders the chain one child per line, indented, so multi-stage
// pipelines are readable in logs.
func (s *Sequential) String() string {
	if len(s.steps) == 0 {
		return "SequentialTransformer()"
	}
	var b strings.Builder
	b.WriteString("SequentialTransformer(\n")
	for _, step := range s.steps {
		desc := step.Name()
		if str, ok := step.(fmt.Stringer); ok {
			desc = str.String()
		}
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(")")
	return b.String()
}

// TransformIngestor composes an ingestor with a transformer: Ingest reads
// and immediately transforms. The transformer is assumed pre-fitted or
// stateless; no Fit call is made.
type TransformIngestor struct {
	Ingestor    Ingestor
	Transformer Transformer
}

func (ti *TransformIngestor) Ingest(ctx context.Context) (*table.Table, error) {
	t, err := ti.Ingestor.Ingest(ctx)
	if err != nil {
		return nil, err
	}
	return ti.Transformer.Transform(ctx, t)
}

// TransformExporter composes a transformer with an exporter: Export
// transforms and then writes.
type TransformExporter struct {
	Transformer Transformer
	Exporter    Exporter
}

func (te *TransformExporter) Export(ctx context.Context, t *table.Table) error {
	out, err := te.Transformer.Transform(ctx, t)
	if err != nil {
		return err
	}
	return te.Exporter.Export(ctx, out)
}

// RegisterCompositionWrappers adds sequential, transform_ingestor and
// transform_exporter to a registry. Their nested fields are resolved
// recursively, so configuration records can nest records arbitrarily
// (bounded by the resolution depth guard).
func RegisterCompositionWrappers(r *Registry) {
	r.MustRegister(Registration{
		Name:        "sequential",
		Kind:        CapTransformer,
		Description: "chain of transformers applied in order",
		Factory: func(res *Resolver, args map[string]any) (any, error) {
			var opts struct {
				Steps []any `mapstructure:"steps"`
			}
			if err := DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			steps, err := res.Transformers(opts.Steps)
			if err != nil {
				return nil, err
			}
			return NewSequential(steps...), nil
		},
	})
	r.MustRegister(Registration{
		Name:        "transform_ingestor",
		Kind:        CapIngestor,
		Description: "ingest then transform",
		Factory: func(res *Resolver, args map[string]any) (any, error) {
			var opts struct {
				Ingestor    any `mapstructure:"ingestor"`
				Transformer any `mapstructure:"transformer"`
			}
			if err := DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			ing, err := res.Ingestor(opts.Ingestor)
			if err != nil {
				return nil, err
			}
			tr, err := res.Transformer(opts.Transformer)
			if err != nil {
				return nil, err
			}
			return &TransformIngestor{Ingestor: ing, Transformer: tr}, nil
		},
	})
	r.MustRegister(Registration{
		Name:        "transform_exporter",
		Kind:        CapExporter,
		Description: "transform then export",
		Factory: func(res *Resolver, args map[string]any) (any, error) {
			var opts struct {
				Transformer any `mapstructure:"transformer"`
				Exporter    any `mapstructure:"exporter"`
			}
			if err := DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			tr, err := res.Transformer(opts.Transformer)
			if err != nil {
				return nil, err
			}
			exp, err := res.Exporter(opts.Exporter)
			if err != nil {
				return nil, err
			}
			return &TransformExporter{Transformer: tr, Exporter: exp}, nil
		},
	})
}
