package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/internal/api"
	"github.com/coinscan/backend/internal/api/handlers"
	"github.com/coinscan/backend/internal/chat"
	"github.com/coinscan/backend/internal/compose"
	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/query"
	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/config"
	"github.com/coinscan/backend/pkg/database"
	"github.com/coinscan/backend/pkg/logger"
	"github.com/coinscan/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                      - Health check
  GET  /api/v1/health/detailed      - Component status
  POST /api/v1/chat                 - Process a chat message
  GET  /api/v1/chat/history         - Recent conversation exchanges
  GET  /api/v1/chat/ws              - Websocket chat session
  GET  /api/v1/score/{token}        - Score one token
  GET  /api/v1/compare?tokens=A,B   - Compare tokens
  POST /api/v1/portfolio/analyze    - Score portfolio holdings
  GET  /api/v1/market/overview      - Market conditions
  GET  /api/v1/market/top/{dir}     - 24h gainers or losers
  POST /api/v1/alerts               - Create a price alert
  GET  /api/v1/alerts               - List alerts
  DELETE /api/v1/alerts/{id}        - Delete an alert
  GET  /api/v1/rules                - Active scoring weights
  POST /api/v1/rules/reload         - Reload the rules file

Example:
  go run ./cmd/scanner api
  go run ./cmd/scanner api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Coinscan API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 4. Market data provider, optionally cached
	var provider marketdata.Provider = marketdata.NewStaticProvider()
	if cfg.CacheEnabled && redisClient.Enabled() {
		cache := redis.NewCache(redisClient, "coinscan")
		provider = marketdata.NewCachedProvider(provider, cache, cfg.CacheTTL, log)
		log.WithField("ttl", cfg.CacheTTL.String()).Info("Metrics cache enabled")
	}

	// 5. Load scoring rules
	table, _, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.RulesPath).Warn("Rules file unavailable, using defaults")
		table = scoring.DefaultRuleTable()
	}
	for _, w := range rules.Warn(table) {
		log.WithField("path", cfg.RulesPath).Warn(w)
	}
	if hash, err := rules.Hash(table); err == nil {
		log.WithField("hash", hash).Info("Scoring rules loaded")
	}
	holder := rules.NewHolder(table)

	// 6. Alert store: PostgreSQL when configured, in-memory otherwise
	var alertStore alerts.Store = alerts.NewMemoryStore()
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		alertStore = alerts.NewRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Info("DATABASE_URL not set, using in-memory alert store")
	}

	// 7. Alert checker
	var checker *alerts.Checker
	if cfg.AlertsEnabled {
		checker = alerts.NewChecker(alertStore, provider, cfg.AlertCheckInterval, log)
		if err := checker.Start(); err != nil {
			return fmt.Errorf("start alert checker: %w", err)
		}
		defer checker.Stop()
	}

	// 8. Chat service
	engine := scoring.NewEngine(log)
	service := chat.NewService(
		query.NewParser(),
		engine,
		holder,
		provider,
		compose.NewComposer(),
		alertStore,
		chat.NewHistory(),
		log,
	)

	// 9. Handlers and router
	chatHandler := handlers.NewChatHandler(service, log)
	scoreHandler := handlers.NewScoreHandler(service, log)
	marketHandler := handlers.NewMarketHandler(provider, log)
	alertHandler := handlers.NewAlertHandler(alertStore, log)
	rulesHandler := handlers.NewRulesHandler(holder, cfg.RulesPath, log)
	healthHandler := handlers.NewHealthHandler(alertStore, holder)

	router := api.NewRouter(chatHandler, scoreHandler, marketHandler, alertHandler, rulesHandler, healthHandler, log)

	// 10. Start server with graceful shutdown
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
