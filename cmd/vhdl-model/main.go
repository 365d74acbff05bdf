// =============================================================================
// VHDL Model - Main Entry Point
// =============================================================================
//
// This tool loads VHDL sources into a semantic object model (design,
// libraries, documents, design units, types) and exposes it as validated
// relational facts and structural checks.
//
// THE PIPELINE:
//   1. Extractor turns each file into flat facts (units, declarations)
//   2. Indexer populates one model.Design and binds cross-file references
//   3. CUE Validator enforces the fact table contract
//   4. Checker runs structural rules over the design
//
// WHEN INVESTIGATING A WRONG RESULT:
//   Start at the beginning of the pipeline, not the end!
//   Extractor issues -> Indexer issues -> Check issues
// =============================================================================

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/indexer"
)

var rootCmd = &cobra.Command{
	Use:   "vhdl-model",
	Short: "VHDL semantic model loader",
	Long: `vhdl-model loads VHDL sources into a semantic model of libraries,
design units and types, exports it as relational facts and checks it for
structural problems.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: search vhdl_model.{json,toml})")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("timing", false, "write stage timings as JSONL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds a development logger for --verbose and a quiet
// production logger otherwise. Both write to stderr so stdout stays
// parseable.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stderr"}
		return z.Build()
	}
	z := zap.NewProductionConfig()
	z.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return z.Build()
}

// loadConfig reads --config when given, otherwise searches from path.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", configPath, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// runIndex loads the configuration and indexes path with the persistent
// flags applied.
func runIndex(cmd *cobra.Command, path string) (*indexer.Result, *config.Config, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	timing, _ := cmd.Flags().GetBool("timing")

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return nil, nil, err
	}

	idx := indexer.NewWithConfig(cfg)
	idx.Logger = logger
	idx.Verbose = verbose
	idx.Timing = timing
	result, err := idx.Run(cmd.Context(), path)
	if err != nil {
		return nil, nil, err
	}
	return result, cfg, nil
}
