package ingest

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the file ingestors to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "ingest_csv",
		Kind:        pipetab.CapIngestor,
		Description: "read a CSV file with a header row, inferring column types",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Path      string `mapstructure:"path"`
				Delimiter string `mapstructure:"delimiter"`
				Comment   string `mapstructure:"comment"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			c := &CSV{Path: opts.Path}
			if opts.Delimiter != "" {
				c.Delimiter = []rune(opts.Delimiter)[0]
			}
			if opts.Comment != "" {
				c.Comment = []rune(opts.Comment)[0]
			}
			return c, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "ingest_jsonl",
		Kind:        pipetab.CapIngestor,
		Description: "read newline-delimited JSON objects",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Path string `mapstructure:"path"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &JSONL{Path: opts.Path}, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "ingest_parquet",
		Kind:        pipetab.CapIngestor,
		Description: "read a Parquet file through the Arrow bridge",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Path string `mapstructure:"path"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Parquet{Path: opts.Path}, nil
		},
	})
}
