package handlers

import (
	"net/http"

	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/pkg/logger"
)

// RulesHandler exposes the active scoring rule table
type RulesHandler struct {
	holder    *rules.Holder
	rulesPath string
	logger    *logger.Logger
}

// NewRulesHandler creates a new rules handler
func NewRulesHandler(holder *rules.Holder, rulesPath string, log *logger.Logger) *RulesHandler {
	return &RulesHandler{
		holder:    holder,
		rulesPath: rulesPath,
		logger:    log,
	}
}

// Current returns the active rule table weights
// GET /api/v1/rules
func (h *RulesHandler) Current(w http.ResponseWriter, r *http.Request) {
	table := h.holder.Current()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"weights": table.Weights,
	})
}

// Reload re-reads the rule file and swaps the active table. Requests in
// flight keep the table they started with.
// POST /api/v1/rules/reload
func (h *RulesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	hash, err := h.holder.ReloadFrom(h.rulesPath)
	if err != nil {
		h.logger.WithError(err).WithField("path", h.rulesPath).Error("Failed to reload rules")
		respondError(w, http.StatusInternalServerError, "Failed to reload rules")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"path": h.rulesPath,
		"hash": hash,
	}).Info("Rules reloaded")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "reloaded",
		"hash":    hash,
		"weights": h.holder.Current().Weights,
	})
}
