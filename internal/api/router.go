package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/coinscan/backend/internal/api/handlers"
	"github.com/coinscan/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	chatHandler *handlers.ChatHandler,
	scoreHandler *handlers.ScoreHandler,
	marketHandler *handlers.MarketHandler,
	alertHandler *handlers.AlertHandler,
	rulesHandler *handlers.RulesHandler,
	healthHandler *handlers.HealthHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")

	// Chat endpoints
	api.HandleFunc("/chat", chatHandler.Chat).Methods("POST")
	api.HandleFunc("/chat/history", chatHandler.History).Methods("GET")
	api.HandleFunc("/chat/ws", chatHandler.Websocket).Methods("GET")

	// Scoring endpoints
	api.HandleFunc("/score/{token}", scoreHandler.Score).Methods("GET")
	api.HandleFunc("/compare", scoreHandler.Compare).Methods("GET")
	api.HandleFunc("/portfolio/analyze", scoreHandler.AnalyzePortfolio).Methods("POST")

	// Market endpoints
	api.HandleFunc("/market/overview", marketHandler.Overview).Methods("GET")
	api.HandleFunc("/market/top/{direction}", marketHandler.TopMovers).Methods("GET")

	// Alert endpoints
	api.HandleFunc("/alerts", alertHandler.Create).Methods("POST")
	api.HandleFunc("/alerts", alertHandler.List).Methods("GET")
	api.HandleFunc("/alerts/{id}", alertHandler.Delete).Methods("DELETE")

	// Rules endpoints
	api.HandleFunc("/rules", rulesHandler.Current).Methods("GET")
	api.HandleFunc("/rules/reload", rulesHandler.Reload).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(20), 40)))
	r.Use(healthHandler.Count)

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "coinscan-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware throttles the whole API behind one token bucket.
func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
