package colops

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the schema-level transformers to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "cast",
		Kind:        pipetab.CapTransformer,
		Description: "convert columns to target types",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Columns   map[string]string     `mapstructure:"columns"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return NewCast(opts.Columns, opts.OnMissing)
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "column_selection",
		Kind:        pipetab.CapTransformer,
		Description: "keep only the requested columns",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var spec pipetab.ColumnSpec
			if err := pipetab.DecodeArgs(args, &spec); err != nil {
				return nil, err
			}
			return &ColumnSelection{Spec: spec}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "sort",
		Kind:        pipetab.CapTransformer,
		Description: "stable sort by columns; prefix a name with - for descending",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Columns   []string              `mapstructure:"columns"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return NewSort(opts.Columns, opts.OnMissing), nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "propagate_nulls",
		Kind:        pipetab.CapTransformer,
		Description: "null destination columns on rows where a source column is null",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Columns   []string              `mapstructure:"columns"`
				To        []string              `mapstructure:"to"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &PropagateNulls{Columns: opts.Columns, To: opts.To, OnMissing: opts.OnMissing}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "shrink",
		Kind:        pipetab.CapTransformer,
		Description: "downcast numeric columns that fit a narrower type",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var spec pipetab.ColumnSpec
			if err := pipetab.DecodeArgs(args, &spec); err != nil {
				return nil, err
			}
			return &Shrink{Spec: spec}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "rename",
		Kind:        pipetab.CapTransformer,
		Description: "rename columns",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Columns   map[string]string     `mapstructure:"columns"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
				OnExists  pipetab.MissingPolicy `mapstructure:"on_exists"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Rename{Columns: opts.Columns, OnMissing: opts.OnMissing, OnExists: opts.OnExists}, nil
		},
	})
}
