// Package main implements santa, a Secret Santa SMS notifier.
// It draws a constrained random assignment from a YAML roster and texts
// each participant the name of the person they are buying for.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	seed        int64
	maxAttempts int
	historyPath string
	avoidRepeat bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "santa",
	Short: "santa - Secret Santa SMS notifier",
	Long: `santa draws a Secret Santa assignment from a YAML roster and texts
each participant the name of the person they drew.

The roster file maps each participant to a phone number and an optional
exclude list (people they must not draw):

  Alice:
    phone: "234-567-8901"
    exclude: Bob, Carol
  Bob:
    phone: "234-567-8902"

Credentials can be passed as flags, as paths to files holding the value,
or through TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN /
TWILIO_MESSAGING_SERVICE_SID (a .env file is loaded if present).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; explicit flags and environment still win.
		_ = godotenv.Load()

		config := zap.NewProductionConfig()
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
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "santa.yaml", "path to the roster YAML file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for the draw (0 = time-based)")
	rootCmd.PersistentFlags().IntVar(&maxAttempts, "max-attempts", 0, "cap on full-draw retries (0 = default)")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "path to the SQLite run ledger (empty = no ledger)")
	rootCmd.PersistentFlags().BoolVar(&avoidRepeat, "avoid-repeats", false, "exclude each giver's previous recipient (needs --history)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
