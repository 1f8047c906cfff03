package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coinscan/backend/internal/compose"
	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/config"
	"github.com/coinscan/backend/pkg/logger"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score SYMBOL",
	Short: "Score one token",
	Long: `Scores a token and prints the result.

By default metrics come from the built-in snapshot provider. With
--metrics, a JSON file supplies the metrics instead, so offline
snapshots can be scored directly.

Example:
  go run ./cmd/scanner score BTC
  go run ./cmd/scanner score BTC --json
  go run ./cmd/scanner score XYZ --metrics snapshot.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreMetricsFile string
	scoreJSON        bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreMetricsFile, "metrics", "", "JSON file with token metrics")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the raw result as JSON")
}

func runScore(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	table, _, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.RulesPath).Warn("Rules file unavailable, using defaults")
		table = scoring.DefaultRuleTable()
	}

	var m scoring.Metrics
	if scoreMetricsFile != "" {
		data, err := os.ReadFile(scoreMetricsFile)
		if err != nil {
			return fmt.Errorf("read metrics file: %w", err)
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("decode metrics file: %w", err)
		}
		if m.Symbol == "" {
			m.Symbol = symbol
		}
	} else {
		m, err = marketdata.NewStaticProvider().Metrics(context.Background(), symbol)
		if err != nil {
			return fmt.Errorf("fetch metrics: %w", err)
		}
	}

	result := scoring.NewEngine(log).Score(m, table)

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(compose.NewComposer().ScoreSummary(&result))
	return nil
}
