package standardize

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the string normalization transformers to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "trim",
		Kind:        pipetab.CapTransformer,
		Description: "trim surrounding whitespace in a string column",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Trim{Column: opts.Column, OnMissing: opts.OnMissing}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "lower",
		Kind:        pipetab.CapTransformer,
		Description: "lowercase a string column",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Lower{Column: opts.Column, OnMissing: opts.OnMissing}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "regex_replace",
		Kind:        pipetab.CapTransformer,
		Description: "regex substitution over a string column",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				Pattern   string                `mapstructure:"pattern"`
				Replace   string                `mapstructure:"replace"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return NewRegexReplace(opts.Column, opts.Pattern, opts.Replace, opts.OnMissing)
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "map_values",
		Kind:        pipetab.CapTransformer,
		Description: "replace exact values via a lookup map",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Column    string                `mapstructure:"column"`
				Map       map[string]string     `mapstructure:"map"`
				OnMissing pipetab.MissingPolicy `mapstructure:"on_missing"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &MapValues{Column: opts.Column, Map: opts.Map, OnMissing: opts.OnMissing}, nil
		},
	})
}
