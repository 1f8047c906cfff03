package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/internal/rules"
)

// HealthHandler reports component status. The request counter is fed by the
// Count middleware so the detailed report reflects real traffic.
type HealthHandler struct {
	store    alerts.Store
	holder   *rules.Holder
	started  time.Time
	requests atomic.Int64
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store alerts.Store, holder *rules.Holder) *HealthHandler {
	return &HealthHandler{
		store:   store,
		holder:  holder,
		started: time.Now().UTC(),
	}
}

// Count is middleware that counts every request passing through the router.
func (h *HealthHandler) Count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Detailed reports per-component status
// GET /api/v1/health/detailed
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"api":            "operational",
		"scoring_engine": "operational",
		"alert_store":    "operational",
	}
	status := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.store.List(ctx, alerts.StatusActive); err != nil {
		components["alert_store"] = "degraded"
		status = "degraded"
	}

	rulesHash, err := rules.Hash(h.holder.Current())
	if err != nil {
		rulesHash = ""
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":             status,
		"components":         components,
		"rules_hash":         rulesHash,
		"uptime_seconds":     int64(time.Since(h.started).Seconds()),
		"requests_processed": h.requests.Load(),
	})
}
