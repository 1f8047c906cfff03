package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/internal/chat"
	"github.com/coinscan/backend/internal/compose"
	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/query"
	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/config"
	"github.com/coinscan/backend/pkg/logger"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat session",
	Long: `Starts an interactive analyst chat session on stdin.

Type queries like "Score BTC" or "Compare ETH vs SOL".
Type 'exit' or 'quit' to leave.

Example:
  go run ./cmd/scanner chat`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	service := newLocalChatService(cfg, log)

	fmt.Println("=== Coinscan Chat ===")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply := service.Handle(ctx, line)
		fmt.Println(reply.Response)
	}

	return scanner.Err()
}

// newLocalChatService wires a chat service on in-process components only.
// CLI sessions never need Redis or PostgreSQL.
func newLocalChatService(cfg *config.Config, log *logger.Logger) *chat.Service {
	table, _, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.RulesPath).Warn("Rules file unavailable, using defaults")
		table = scoring.DefaultRuleTable()
	}

	return chat.NewService(
		query.NewParser(),
		scoring.NewEngine(log),
		rules.NewHolder(table),
		marketdata.NewStaticProvider(),
		compose.NewComposer(),
		alerts.NewMemoryStore(),
		chat.NewHistory(),
		log,
	)
}
