package validate

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the validation transformers to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "validate_in",
		Kind:        pipetab.CapTransformer,
		Description: "fail when a string column holds values outside an allowed set",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				Values    []string              `mapstructure:"values"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return NewInSet(opts.Column, opts.Values, opts.OnMissing), nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "validate_range",
		Kind:        pipetab.CapTransformer,
		Description: "fail when a numeric column holds out-of-range values",
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
			return &Range{Column: opts.Column, Min: opts.Min, Max: opts.Max, OnMissing: opts.OnMissing}, nil
		},
	})
}
