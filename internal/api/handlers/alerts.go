package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/pkg/logger"
)

// AlertHandler handles price alert API endpoints
type AlertHandler struct {
	store  alerts.Store
	logger *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(store alerts.Store, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		store:  store,
		logger: log,
	}
}

// CreateAlertRequest represents an alert creation request
type CreateAlertRequest struct {
	Symbol     string  `json:"symbol"`
	PriceLevel float64 `json:"price_level"`
	Condition  string  `json:"condition"`
}

// Create registers a new price alert
// POST /api/v1/alerts
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	if req.PriceLevel <= 0 {
		respondError(w, http.StatusBadRequest, "Price level must be positive")
		return
	}

	condition := alerts.Condition(req.Condition)
	if condition == "" {
		condition = alerts.ConditionAbove
	}
	if condition != alerts.ConditionAbove && condition != alerts.ConditionBelow {
		respondError(w, http.StatusBadRequest, "Invalid condition (valid: above, below)")
		return
	}

	created, err := h.store.Create(r.Context(), alerts.Alert{
		Symbol:     req.Symbol,
		PriceLevel: req.PriceLevel,
		Condition:  condition,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to create alert")
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// List returns alerts, optionally filtered by status
// GET /api/v1/alerts?status=active
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	status := alerts.Status(r.URL.Query().Get("status"))
	if status != "" && status != alerts.StatusActive && status != alerts.StatusTriggered {
		respondError(w, http.StatusBadRequest, "Invalid status (valid: active, triggered)")
		return
	}

	list, err := h.store.List(r.Context(), status)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": list,
	})
}

// Delete removes an alert by id
// DELETE /api/v1/alerts/{id}
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, alerts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Alert not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete alert")
		respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
