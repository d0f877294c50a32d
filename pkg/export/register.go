package export

import (
	"github.com/pipetab/pipetab/pkg/pipetab"
)

// Register adds the file exporters to a registry.
func Register(r *pipetab.Registry) {
	r.MustRegister(pipetab.Registration{
		Name:        "export_csv",
		Kind:        pipetab.CapExporter,
		Description: "write comma-separated text with a header row",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Path      string `mapstructure:"path"`
				Delimiter string `mapstructure:"delimiter"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			c := &CSV{Path: opts.Path}
			if opts.Delimiter != "" {
				c.Delimiter = []rune(opts.Delimiter)[0]
			}
			return c, nil
		},
	})
	r.MustRegister(pipetab.Registration{
		Name:        "export_jsonl",
		Kind:        pipetab.CapExporter,
		Description: "write one JSON object per row",
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
		Name:        "export_parquet",
		Kind:        pipetab.CapExporter,
		Description: "write a Parquet file through the Arrow bridge",
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Path        string `mapstructure:"path"`
				Compression string `mapstructure:"compression"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &Parquet{Path: opts.Path, Compression: opts.Compression}, nil
		},
	})
}
