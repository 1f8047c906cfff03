package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/pkg/logger"
)

// Checker periodically evaluates active alerts against current prices and
// marks crossed ones as triggered.
type Checker struct {
	store    Store
	provider marketdata.Provider
	interval time.Duration
	cron     *cron.Cron
	logger   *logger.Logger
}

// NewChecker creates a new alert checker.
func NewChecker(store Store, provider marketdata.Provider, interval time.Duration, log *logger.Logger) *Checker {
	return &Checker{
		store:    store,
		provider: provider,
		interval: interval,
		cron:     cron.New(),
		logger:   log,
	}
}

// Start schedules the periodic evaluation and returns immediately.
func (c *Checker) Start() error {
	spec := fmt.Sprintf("@every %s", c.interval)
	_, err := c.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.interval)
		defer cancel()

		if err := c.RunOnce(ctx); err != nil {
			c.logger.WithError(err).Warn("Alert check run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule alert check: %w", err)
	}

	c.cron.Start()
	c.logger.WithField("interval", c.interval.String()).Info("Alert checker started")
	return nil
}

// Stop halts scheduling and waits for a running check to finish.
func (c *Checker) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
	c.logger.Info("Alert checker stopped")
}

// RunOnce evaluates all active alerts once. Exposed for the CLI and tests.
func (c *Checker) RunOnce(ctx context.Context) error {
	active, err := c.store.List(ctx, StatusActive)
	if err != nil {
		return fmt.Errorf("list active alerts: %w", err)
	}

	triggered := 0
	for _, alert := range active {
		m, err := c.provider.Metrics(ctx, alert.Symbol)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", alert.Symbol).Warn("Failed to fetch metrics for alert")
			continue
		}
		if m.Price == nil {
			// No price data; alert stays active.
			continue
		}

		if !crossed(alert, *m.Price) {
			continue
		}

		now := time.Now().UTC()
		if err := c.store.MarkTriggered(ctx, alert.ID, now); err != nil {
			c.logger.WithError(err).WithField("alert_id", alert.ID).Warn("Failed to mark alert triggered")
			continue
		}

		triggered++
		c.logger.WithFields(map[string]interface{}{
			"alert_id":    alert.ID,
			"symbol":      alert.Symbol,
			"price":       *m.Price,
			"price_level": alert.PriceLevel,
			"condition":   alert.Condition,
		}).Info("Alert triggered")
	}

	if triggered > 0 {
		c.logger.WithFields(map[string]interface{}{
			"checked":   len(active),
			"triggered": triggered,
		}).Info("Alert check completed")
	}

	return nil
}

func crossed(alert Alert, price float64) bool {
	switch alert.Condition {
	case ConditionBelow:
		return price <= alert.PriceLevel
	default:
		return price >= alert.PriceLevel
	}
}
