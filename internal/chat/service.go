package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coinscan/backend/internal/alerts"
	"github.com/coinscan/backend/internal/compose"
	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/query"
	"github.com/coinscan/backend/internal/rules"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/logger"
)

// Reply is the structured outcome of one chat turn.
type Reply struct {
	UserMessage string       `json:"user_message"`
	Intent      query.Intent `json:"intent"`
	Confidence  float64      `json:"confidence"`
	Response    string       `json:"response"`
}

// Service wires the query interpreter, scoring engine and response composer
// into the conversational flow. The engines never call each other; this
// service is the caller that composes them.
type Service struct {
	parser   *query.Parser
	engine   *scoring.Engine
	rules    *rules.Holder
	provider marketdata.Provider
	composer *compose.Composer
	alerts   alerts.Store
	history  *History
	logger   *logger.Logger
}

// NewService creates a chat service.
func NewService(
	parser *query.Parser,
	engine *scoring.Engine,
	ruleHolder *rules.Holder,
	provider marketdata.Provider,
	composer *compose.Composer,
	alertStore alerts.Store,
	history *History,
	log *logger.Logger,
) *Service {
	return &Service{
		parser:   parser,
		engine:   engine,
		rules:    ruleHolder,
		provider: provider,
		composer: composer,
		alerts:   alertStore,
		history:  history,
		logger:   log,
	}
}

// Handle processes one user message end to end. It is total: upstream
// failures degrade into a rendered error message, never an error return.
func (s *Service) Handle(ctx context.Context, message string) Reply {
	parsed := s.parser.Parse(message)

	s.logger.WithFields(map[string]interface{}{
		"intent":     parsed.Intent,
		"confidence": parsed.Confidence,
		"tokens":     parsed.Tokens,
	}).Debug("Parsed chat query")

	response := s.respond(ctx, parsed)
	s.history.Append(message, response)

	return Reply{
		UserMessage: message,
		Intent:      parsed.Intent,
		Confidence:  parsed.Confidence,
		Response:    response,
	}
}

// History returns the conversation history backing this service.
func (s *Service) History() *History {
	return s.history
}

func (s *Service) respond(ctx context.Context, parsed query.ParsedQuery) string {
	switch parsed.Intent {
	case query.IntentScoreToken:
		return s.respondScore(ctx, parsed.Tokens[0])
	case query.IntentCompareTokens:
		return s.respondCompare(ctx, parsed.Tokens)
	case query.IntentAnalyzePortfolio:
		return s.respondPortfolio(ctx, parsed)
	case query.IntentSetAlert:
		return s.respondSetAlert(ctx, parsed)
	case query.IntentGetAlerts:
		return s.respondGetAlerts(ctx)
	case query.IntentMarketOverview:
		return s.respondOverview(ctx)
	case query.IntentTopPerformers:
		return s.respondTopPerformers(ctx, parsed.Limit)
	case query.IntentExplainScore:
		return s.composer.Methodology(s.rules.Current())
	case query.IntentHelp:
		return s.composer.Help()
	default:
		return s.composer.Render(query.IntentUnknown, compose.Payload{})
	}
}

func (s *Service) respondScore(ctx context.Context, symbol string) string {
	result, err := s.ScoreSymbol(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Scoring failed in chat")
		return s.composer.Error(fmt.Sprintf("could not score %s", symbol))
	}
	return s.composer.ScoreSummary(&result)
}

func (s *Service) respondCompare(ctx context.Context, symbols []string) string {
	results := s.scoreAll(ctx, symbols)
	return s.composer.Comparison(results)
}

func (s *Service) respondPortfolio(ctx context.Context, parsed query.ParsedQuery) string {
	portfolioID := ""
	if len(parsed.PortfolioIDs) > 0 {
		portfolioID = parsed.PortfolioIDs[0]
	}
	results := s.scoreAll(ctx, parsed.Tokens)
	return s.composer.PortfolioSummary(portfolioID, results)
}

func (s *Service) respondSetAlert(ctx context.Context, parsed query.ParsedQuery) string {
	if len(parsed.Tokens) == 0 {
		return s.composer.Error("alert needs a token symbol, e.g. \"Set alert BTC 50000\"")
	}

	level, ok := extractPriceLevel(parsed.RawQuery)
	if !ok {
		return s.composer.Error("alert needs a price level, e.g. \"Set alert BTC 50000\"")
	}

	condition := alerts.ConditionAbove
	lower := strings.ToLower(parsed.RawQuery)
	if strings.Contains(lower, "below") || strings.Contains(lower, "under") {
		condition = alerts.ConditionBelow
	}

	created, err := s.alerts.Create(ctx, alerts.Alert{
		Symbol:     parsed.Tokens[0],
		PriceLevel: level,
		Condition:  condition,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Alert creation failed in chat")
		return s.composer.Error("could not create alert")
	}

	return s.composer.AlertCreated(created.Symbol, created.PriceLevel, string(created.Condition))
}

func (s *Service) respondGetAlerts(ctx context.Context) string {
	active, err := s.alerts.List(ctx, alerts.StatusActive)
	if err != nil {
		s.logger.WithError(err).Warn("Alert listing failed in chat")
		return s.composer.Error("could not list alerts")
	}

	lines := make([]string, 0, len(active))
	for _, a := range active {
		lines = append(lines, fmt.Sprintf("#%d %s %s $%g (%s)", a.ID, a.Symbol, a.Condition, a.PriceLevel, a.Status))
	}
	return s.composer.AlertList(lines)
}

func (s *Service) respondOverview(ctx context.Context) string {
	ov, err := s.provider.Overview(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Overview fetch failed in chat")
		return s.composer.MarketSnapshot(nil)
	}
	return s.composer.MarketSnapshot(&ov)
}

func (s *Service) respondTopPerformers(ctx context.Context, limit int) string {
	gainers, err := s.provider.TopMovers(ctx, marketdata.DirectionGainers, limit)
	if err != nil {
		s.logger.WithError(err).Warn("Gainers fetch failed in chat")
	}
	losers, err := s.provider.TopMovers(ctx, marketdata.DirectionLosers, limit)
	if err != nil {
		s.logger.WithError(err).Warn("Losers fetch failed in chat")
	}
	return s.composer.Leaderboard(gainers, losers)
}

// ScoreSymbol fetches metrics for a symbol and scores them with the active
// rule table.
func (s *Service) ScoreSymbol(ctx context.Context, symbol string) (scoring.ScoringResult, error) {
	m, err := s.provider.Metrics(ctx, symbol)
	if err != nil {
		return scoring.ScoringResult{}, fmt.Errorf("fetch metrics for %s: %w", symbol, err)
	}
	return s.engine.Score(m, s.rules.Current()), nil
}

func (s *Service) scoreAll(ctx context.Context, symbols []string) []scoring.ScoringResult {
	results := make([]scoring.ScoringResult, 0, len(symbols))
	for _, sym := range symbols {
		result, err := s.ScoreSymbol(ctx, sym)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", sym).Warn("Skipping symbol in multi-score")
			continue
		}
		results = append(results, result)
	}
	return results
}

// priceLevelRe matches a standalone number, optionally dollar-prefixed, so
// period shorthands like "1h" are not mistaken for prices.
var priceLevelRe = regexp.MustCompile(`(?:^|\s)\$?(\d+(?:\.\d+)?)(?:\s|$)`)

func extractPriceLevel(text string) (float64, bool) {
	m := priceLevelRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	level, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return level, true
}
