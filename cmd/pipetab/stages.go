package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/stages"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the registered stages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, reg := range stages.DefaultRegistry().List() {
			fmt.Printf("%-20s %-12s %s\n", reg.Name, kindLabel(reg.Kind), reg.Description)
		}
	},
}

func kindLabel(k pipetab.CapabilityKind) string {
	switch k {
	case pipetab.CapIngestor:
		return "ingestor"
	case pipetab.CapTransformer:
		return "transformer"
	case pipetab.CapExporter:
		return "exporter"
	default:
		return "unknown"
	}
}
