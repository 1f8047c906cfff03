package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/internal/api/handlers"
	"github.com/coinscan/backend/internal/chat"
	"github.com/coinscan/backend/internal/compose"
	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/query"
	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/logger"
)

type testEnv struct {
	router http.Handler
	store  *alerts.MemoryStore
	holder *rules.Holder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewNop()
	store := alerts.NewMemoryStore()
	provider := marketdata.NewStaticProvider()
	holder := rules.NewHolder(scoring.DefaultRuleTable())

	service := chat.NewService(
		query.NewParser(),
		scoring.NewEngine(log),
		holder,
		provider,
		compose.NewComposer(),
		store,
		chat.NewHistory(),
		log,
	)

	rulesPath := filepath.Join(t.TempDir(), "scoring_rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("weights:\n  fundamentals: 0.4\n  technicals: 0.3\n  sentiment: 0.2\n  smart_money: 0.1\n"), 0o644))

	router := NewRouter(
		handlers.NewChatHandler(service, log),
		handlers.NewScoreHandler(service, log),
		handlers.NewMarketHandler(provider, log),
		handlers.NewAlertHandler(store, log),
		handlers.NewRulesHandler(holder, rulesPath, log),
		handlers.NewHealthHandler(store, holder),
		log,
	)

	return &testEnv{router: router, store: store, holder: holder}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestChatEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("scores a token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "Score BTC"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply chat.Reply
		decode(t, rec, &reply)
		assert.Equal(t, query.IntentScoreToken, reply.Intent)
		assert.Contains(t, reply.Response, "**BTC Analysis**")
	})

	t.Run("empty message rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("not json")))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "Score BTC"})
	env.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "help"})

	rec := env.do(t, http.MethodGet, "/api/v1/chat/history?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []chat.Exchange `json:"history"`
	}
	decode(t, rec, &body)
	require.Len(t, body.History, 1)
	assert.Equal(t, "help", body.History[0].User)
}

func TestScoreEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/score/btc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result scoring.ScoringResult
	decode(t, rec, &result)
	assert.Equal(t, "BTC", result.TokenSymbol)
	assert.GreaterOrEqual(t, result.Grade, 0)
	assert.LessOrEqual(t, result.Grade, 100)
	assert.NotEmpty(t, result.Signal)
	assert.Contains(t, result.ComponentScores, "ensemble")
}

func TestCompareEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("two tokens", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/compare?tokens=BTC,ETH", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Results []scoring.ScoringResult `json:"results"`
		}
		decode(t, rec, &body)
		assert.Len(t, body.Results, 2)
	})

	t.Run("single token rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/compare?tokens=BTC", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing parameter rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/compare", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPortfolioAnalyzeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("scores holdings and averages", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/portfolio/analyze", handlers.PortfolioRequest{
			PortfolioID: "1",
			Tokens:      []string{"BTC", "eth"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			PortfolioID  string                  `json:"portfolio_id"`
			Tokens       []scoring.ScoringResult `json:"tokens"`
			AverageScore float64                 `json:"average_score"`
			RiskLevel    string                  `json:"risk_level"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "1", body.PortfolioID)
		require.Len(t, body.Tokens, 2)
		assert.Greater(t, body.AverageScore, 0.0)
		assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, body.RiskLevel)
	})

	t.Run("empty portfolio rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/portfolio/analyze", handlers.PortfolioRequest{PortfolioID: "1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDetailedHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Generate some traffic so the counter moves.
	env.do(t, http.MethodGet, "/health", nil)

	rec := env.do(t, http.MethodGet, "/api/v1/health/detailed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status            string            `json:"status"`
		Components        map[string]string `json:"components"`
		RulesHash         string            `json:"rules_hash"`
		RequestsProcessed int64             `json:"requests_processed"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "operational", body.Components["scoring_engine"])
	assert.Equal(t, "operational", body.Components["alert_store"])
	assert.Len(t, body.RulesHash, 64)
	assert.GreaterOrEqual(t, body.RequestsProcessed, int64(2))
}

func TestMarketEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("overview", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/market/overview", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var ov marketdata.Overview
		decode(t, rec, &ov)
		assert.Equal(t, 45.2, ov.BTCDominancePct)
	})

	t.Run("gainers", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/market/top/gainers?limit=3", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Movers []marketdata.Mover `json:"movers"`
		}
		decode(t, rec, &body)
		assert.Len(t, body.Movers, 3)
	})

	t.Run("invalid direction", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/market/top/sideways", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/market/top/gainers?limit=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAlertEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("create", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/alerts", handlers.CreateAlertRequest{
			Symbol:     "btc",
			PriceLevel: 50000,
			Condition:  "above",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created alerts.Alert
		decode(t, rec, &created)
		assert.Equal(t, "BTC", created.Symbol)
		assert.Equal(t, alerts.StatusActive, created.Status)
		assert.NotZero(t, created.ID)
	})

	t.Run("create validates input", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/alerts", handlers.CreateAlertRequest{Symbol: "", PriceLevel: 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/v1/alerts", handlers.CreateAlertRequest{Symbol: "BTC", PriceLevel: -1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/v1/alerts", handlers.CreateAlertRequest{Symbol: "BTC", PriceLevel: 1, Condition: "sideways"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/alerts?status=active", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Alerts []alerts.Alert `json:"alerts"`
		}
		decode(t, rec, &body)
		require.NotEmpty(t, body.Alerts)

		id := body.Alerts[0].ID
		rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/alerts/%d", id), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/alerts/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRulesEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("current weights", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/rules", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Weights map[string]float64 `json:"weights"`
		}
		decode(t, rec, &body)
		assert.Equal(t, 0.25, body.Weights["fundamentals"])
	})

	t.Run("reload swaps the table", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/rules/reload", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status  string             `json:"status"`
			Hash    string             `json:"hash"`
			Weights map[string]float64 `json:"weights"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "reloaded", body.Status)
		assert.Len(t, body.Hash, 64)
		assert.Equal(t, 0.4, body.Weights["fundamentals"])

		// Scoring now uses the new weights.
		assert.Equal(t, 0.4, env.holder.Current().Weight(scoring.CategoryFundamentals))
	})
}
