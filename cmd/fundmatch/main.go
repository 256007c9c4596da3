// fundmatch ranks candidate investment funds against a startup's profile
// using a language model as the scoring function.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fundmatch/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded once in the root PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "fundmatch",
	Short: "fundmatch - LLM-scored fund ranking for startup introductions",
	Long: `fundmatch scores a table of candidate investment funds against a
startup's profile and returns the top-percentile subset.

The fund table is filtered on hard eligibility constraints, split into
batches, scored in parallel by an external model with a shared consistency
anchor, normalized onto a 0-100 scale, and cut to the surviving fraction.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; the original deployment keeps API keys there.
		_ = godotenv.Load()

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
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
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fundmatch.yaml", "path to config file")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
