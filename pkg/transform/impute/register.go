package impute

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the imputation transformers to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "impute_constant",
		Kind:        pipetab.CapTransformer,
		Description: "fill nulls with a fixed value",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				Value     any                   `mapstructure:"value"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Constant{Column: opts.Column, Value: opts.Value, OnMissing: opts.OnMissing}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "impute_mean",
		Kind:        pipetab.CapTransformer,
		Description: "fill nulls with the fitted column mean",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Mean{Column: opts.Column, OnMissing: opts.OnMissing}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "impute_median",
		Kind:        pipetab.CapTransformer,
		Description: "fill nulls with the fitted column median",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Median{Column: opts.Column, OnMissing: opts.OnMissing}, nil
		},
	})
}
