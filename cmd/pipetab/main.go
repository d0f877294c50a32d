// Command pipetab runs config-driven tabular pipelines.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/pipetab/pipetab/pkg/logging"
)

var version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "pipetab",
	Short: "pipetab - config-driven tabular data pipelines",
	Long: `pipetab runs ingest -> transform -> export pipelines described in
YAML, TOML, or JSON files.

Examples:
  pipetab run pipeline.yaml   # Run a pipeline definition
  pipetab stages              # List the registered stages`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if viper.GetBool("verbose") {
			level = zapcore.DebugLevel
		}
		logging.Initialize(viper.GetBool("log-json"), level)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.SetEnvPrefix("PIPETAB")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pipetab", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
