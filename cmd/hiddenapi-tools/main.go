// Package main provides the hiddenapi-tools CLI. It bundles the tools that
// keep a module's hidden API flags consistent with the platform-wide
// monolithic flag files:
//
//	verify    compare a module's flags against the monolithic set
//	patterns  generate the signature patterns selecting a module's subset
//	classify  derive split/single/prefix package properties for a module
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hiddenapi-tools",
	Short: "Hidden API flag verification and pattern generation",
	Long: `hiddenapi-tools checks that the hidden API flags produced by one module
agree with the platform-wide monolithic flag files, and derives the minimal
set of signature patterns that selects the module's contribution out of the
monolithic set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(verifyCmd, patternsCmd, classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
