package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/config"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Scoring rule file tools",
}

// rulesValidateCmd validates a rules file and prints its hash
var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the scoring rules file",
	Long: `Loads the scoring rules file, reports validation errors and
advisory warnings, and prints the table hash.

Example:
  go run ./cmd/scanner rules validate
  go run ./cmd/scanner rules validate --file config/scoring_rules.yaml`,
	RunE: runRulesValidate,
}

var rulesFile string

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd)

	rulesValidateCmd.Flags().StringVar(&rulesFile, "file", "", "rules file path (default: SCORING_RULES_PATH)")
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	path := rulesFile
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.RulesPath
	}

	table, _, err := rules.Load(path)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	hash, err := rules.Hash(table)
	if err != nil {
		return fmt.Errorf("hash rules: %w", err)
	}

	fmt.Printf("✅ %s is valid\n", path)
	fmt.Printf("hash: %s\n", hash)
	fmt.Println("weights:")
	for _, c := range scoring.Categories {
		fmt.Printf("  %s: %.2f\n", c, table.Weight(c))
	}
	for _, w := range rules.Warn(table) {
		fmt.Printf("⚠️  %s\n", w)
	}

	return nil
}
