package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/pkg/logger"
)

// MarketHandler handles market data API endpoints
type MarketHandler struct {
	provider marketdata.Provider
	logger   *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(provider marketdata.Provider, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		provider: provider,
		logger:   log,
	}
}

// Overview returns overall market conditions
// GET /api/v1/market/overview
func (h *MarketHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.provider.Overview(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market overview")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve market overview")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// TopMovers returns 24h gainers or losers
// GET /api/v1/market/top/{direction}?limit=N
func (h *MarketHandler) TopMovers(w http.ResponseWriter, r *http.Request) {
	var direction marketdata.Direction
	switch mux.Vars(r)["direction"] {
	case "gainers":
		direction = marketdata.DirectionGainers
	case "losers":
		direction = marketdata.DirectionLosers
	default:
		respondError(w, http.StatusBadRequest, "Invalid direction (valid: gainers, losers)")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit (valid: 1-100)")
			return
		}
		limit = n
	}

	movers, err := h.provider.TopMovers(r.Context(), direction, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get top movers")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve top movers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"direction": direction,
		"movers":    movers,
	})
}
