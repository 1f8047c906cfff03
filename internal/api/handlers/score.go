package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/coinscan/backend/internal/chat"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/logger"
)

// ScoreHandler handles scoring API endpoints
type ScoreHandler struct {
	service *chat.Service
	logger  *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(service *chat.Service, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		service: service,
		logger:  log,
	}
}

// Score returns the scoring result for one token
// GET /api/v1/score/{token}
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["token"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Token symbol is required")
		return
	}

	result, err := h.service.ScoreSymbol(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to score token")
		respondError(w, http.StatusInternalServerError, "Failed to score token")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Compare scores a comma-separated list of tokens
// GET /api/v1/compare?tokens=BTC,ETH
func (h *ScoreHandler) Compare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tokens")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'tokens' is required")
		return
	}

	symbols := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) < 2 {
		respondError(w, http.StatusBadRequest, "At least two tokens are required")
		return
	}

	results := make([]scoring.ScoringResult, 0, len(symbols))
	for _, symbol := range symbols {
		result, err := h.service.ScoreSymbol(r.Context(), symbol)
		if err != nil {
			h.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping token in comparison")
			continue
		}
		results = append(results, result)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// PortfolioRequest represents a portfolio analysis request
type PortfolioRequest struct {
	PortfolioID string   `json:"portfolio_id"`
	Tokens      []string `json:"tokens"`
}

// AnalyzePortfolio scores each holding and summarizes the portfolio
// POST /api/v1/portfolio/analyze
func (h *ScoreHandler) AnalyzePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Tokens) == 0 {
		respondError(w, http.StatusBadRequest, "At least one token is required")
		return
	}

	results := make([]scoring.ScoringResult, 0, len(req.Tokens))
	total := 0
	for _, raw := range req.Tokens {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		result, err := h.service.ScoreSymbol(r.Context(), symbol)
		if err != nil {
			h.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping holding in portfolio analysis")
			continue
		}
		results = append(results, result)
		total += result.Grade
	}
	if len(results) == 0 {
		respondError(w, http.StatusBadRequest, "No scorable tokens in portfolio")
		return
	}

	average := float64(total) / float64(len(results))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio_id":  req.PortfolioID,
		"tokens":        results,
		"average_score": average,
		"risk_level":    riskLevel(average),
	})
}

// riskLevel buckets the portfolio average into a coarse risk label.
func riskLevel(average float64) string {
	switch {
	case average >= 70:
		return "LOW"
	case average >= 45:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}
