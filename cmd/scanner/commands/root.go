package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "Coinscan - crypto query interpreter and scoring engine",
	Long: `Coinscan CLI

Free-text analyst queries become typed intents, and per-token metrics
become 0-100 grades with trading signals.

Usage:
  go run ./cmd/scanner [command]

Examples:
  go run ./cmd/scanner api
  go run ./cmd/scanner chat
  go run ./cmd/scanner score BTC
  go run ./cmd/scanner rules validate`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
