package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/stages"
)

var runCmd = &cobra.Command{
	Use:   "run <pipeline-file>",
	Short: "Run a pipeline definition",
	Long: `Run loads a pipeline definition (YAML, TOML, or JSON, chosen by file
extension) and executes it once. The definition is a mapping with an
"ingestor", an optional "transformer", and an "exporter" entry, each a
configuration record with a "target" key naming a registered stage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(args[0])
		if err != nil {
			return err
		}
		p, err := pipetab.NewPipeline(stages.DefaultRegistry(), def)
		if err != nil {
			return err
		}
		return p.Run(cmd.Context())
	},
}

// loadDefinition parses a pipeline file into a generic mapping.
func loadDefinition(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &def)
	case ".toml":
		err = toml.Unmarshal(b, &def)
	case ".json":
		err = json.Unmarshal(b, &def)
	default:
		return nil, fmt.Errorf("unsupported pipeline file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}
