// Package compose renders engine results into display text. It contains no
// decision logic: the intent selects a template, missing payload fields
// render as placeholders, and output is deterministic for identical inputs.
package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/query"
	"github.com/coinscan/backend/internal/scoring"
)

// Placeholder is rendered wherever a payload field is absent.
const Placeholder = "N/A"

// Payload carries the result data a template may need. Any field may be nil
// or empty; templates degrade to placeholders instead of failing.
type Payload struct {
	Score      *scoring.ScoringResult
	Comparison []scoring.ScoringResult
	Overview   *marketdata.Overview
	Gainers    []marketdata.Mover
	Losers     []marketdata.Mover
	Rules      scoring.RuleTable
}

// Composer formats result payloads per intent.
type Composer struct{}

// NewComposer creates a new response composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Render selects the template for an intent and renders it.
func (c *Composer) Render(intent query.Intent, payload Payload) string {
	switch intent {
	case query.IntentScoreToken:
		return c.ScoreSummary(payload.Score)
	case query.IntentCompareTokens:
		return c.Comparison(payload.Comparison)
	case query.IntentMarketOverview:
		return c.MarketSnapshot(payload.Overview)
	case query.IntentTopPerformers:
		return c.Leaderboard(payload.Gainers, payload.Losers)
	case query.IntentExplainScore:
		return c.Methodology(payload.Rules)
	case query.IntentHelp:
		return c.Help()
	default:
		return "I didn't quite understand that. Type 'help' for available commands."
	}
}

// ScoreSummary renders one token's scoring result.
func (c *Composer) ScoreSummary(result *scoring.ScoringResult) string {
	if result == nil {
		return "Could not retrieve token data."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n📊 **%s Analysis**\n", strings.ToUpper(result.TokenSymbol))
	fmt.Fprintf(&b, "Overall Score: %d/100\n", result.Grade)
	for _, cat := range scoring.Categories {
		fmt.Fprintf(&b, "- %s: %s/100\n", categoryLabel(cat), componentValue(result, cat))
	}
	fmt.Fprintf(&b, "Signal: %s\n", result.Signal)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", result.Confidence*100)
	if result.Reasoning != "" {
		fmt.Fprintf(&b, "%s\n", result.Reasoning)
	}

	return b.String()
}

// Comparison renders a side-by-side token comparison, sorted by symbol so
// the output is stable regardless of extraction order.
func (c *Composer) Comparison(results []scoring.ScoringResult) string {
	var b strings.Builder
	b.WriteString("\n📈 **Token Comparison**\n")

	if len(results) == 0 {
		fmt.Fprintf(&b, "%s\n", Placeholder)
		return b.String()
	}

	sorted := make([]scoring.ScoringResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TokenSymbol < sorted[j].TokenSymbol
	})

	for _, r := range sorted {
		fmt.Fprintf(&b, "\n%s:\n", r.TokenSymbol)
		fmt.Fprintf(&b, "  Overall Score: %d\n", r.Grade)
		fmt.Fprintf(&b, "  Signal: %s\n", r.Signal)
	}

	return b.String()
}

// MarketSnapshot renders overall market conditions.
func (c *Composer) MarketSnapshot(overview *marketdata.Overview) string {
	var b strings.Builder
	b.WriteString("\n🌍 **Market Overview**\n")

	if overview == nil {
		fmt.Fprintf(&b, "BTC Dominance: %s\n", Placeholder)
		fmt.Fprintf(&b, "Total Market Cap: %s\n", Placeholder)
		fmt.Fprintf(&b, "Sentiment: NEUTRAL\n")
		return b.String()
	}

	fmt.Fprintf(&b, "BTC Dominance: %.1f%%\n", overview.BTCDominancePct)
	fmt.Fprintf(&b, "Total Market Cap: $%.0f\n", overview.TotalMarketCapUSD)
	fmt.Fprintf(&b, "Sentiment: %s\n", overview.Sentiment)
	if overview.Trend != "" {
		fmt.Fprintf(&b, "Trend: %s\n", overview.Trend)
	}

	return b.String()
}

// Leaderboard renders 24h gainers and losers.
func (c *Composer) Leaderboard(gainers, losers []marketdata.Mover) string {
	var b strings.Builder
	b.WriteString("\n🏆 **Top Performers**\n")

	if len(gainers) > 0 {
		b.WriteString("\nGainers (24h):\n")
		for _, m := range top5(gainers) {
			fmt.Fprintf(&b, "  %s: +%.2f%%\n", m.Symbol, m.ChangePct)
		}
	}

	if len(losers) > 0 {
		b.WriteString("\nLosers (24h):\n")
		for _, m := range top5(losers) {
			fmt.Fprintf(&b, "  %s: %.2f%%\n", m.Symbol, m.ChangePct)
		}
	}

	if len(gainers) == 0 && len(losers) == 0 {
		fmt.Fprintf(&b, "%s\n", Placeholder)
	}

	return b.String()
}

// Methodology renders the scoring methodology with the active weights.
func (c *Composer) Methodology(rules scoring.RuleTable) string {
	var b strings.Builder
	b.WriteString("\n📚 **Scoring Methodology**\n\n")
	b.WriteString("The system scores assets across 4 key dimensions:\n\n")

	descriptions := map[scoring.Category]string{
		scoring.CategoryFundamentals: "Token economics, development activity, on-chain metrics",
		scoring.CategoryTechnicals:   "Price action, volume patterns, momentum indicators",
		scoring.CategorySentiment:    "Social media, news sentiment, community engagement",
		scoring.CategorySmartMoney:   "Whale accumulation, exchange flows, pro positioning",
	}

	for _, cat := range scoring.Categories {
		fmt.Fprintf(&b, "**%s (%.0f%%)** - %s\n",
			categoryLabel(cat), rules.Weight(cat)*100, descriptions[cat])
	}

	return b.String()
}

// Help renders usage information.
func (c *Composer) Help() string {
	return `
📖 **Available Commands**

**Token Analysis:**
- "Score BTC" → Get BTC score and signals
- "Compare ETH vs SOL" → Compare tokens
- "Explain scoring" → Learn scoring methodology

**Market Data:**
- "Market overview" → Overall market conditions
- "Top gainers" → Best 24h performers
- "Top losers" → Worst 24h performers

**Portfolio Management:**
- "Analyze portfolio_1" → Review portfolio
- "Set alert BTC 50000" → Create price alert

**Parameters:** time (1h, 4h, 1d, 1w, 1mo), limit (top N)
`
}

// PortfolioSummary renders per-holding scores and the portfolio average.
func (c *Composer) PortfolioSummary(portfolioID string, results []scoring.ScoringResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n💼 **Portfolio %s**\n", orPlaceholder(portfolioID))

	if len(results) == 0 {
		fmt.Fprintf(&b, "No holdings to analyze. Include token symbols, e.g. \"Analyze portfolio_1 BTC ETH\".\n")
		return b.String()
	}

	sorted := make([]scoring.ScoringResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TokenSymbol < sorted[j].TokenSymbol
	})

	total := 0
	for _, r := range sorted {
		fmt.Fprintf(&b, "  %s: %d/100 (%s)\n", r.TokenSymbol, r.Grade, r.Signal)
		total += r.Grade
	}
	fmt.Fprintf(&b, "Average Score: %.1f/100\n", float64(total)/float64(len(sorted)))

	return b.String()
}

// AlertCreated confirms a newly registered price alert.
func (c *Composer) AlertCreated(symbol string, priceLevel float64, condition string) string {
	return fmt.Sprintf("\n🔔 Alert set: %s %s $%g\n", symbol, condition, priceLevel)
}

// AlertList renders registered alerts as symbol/level/status lines.
func (c *Composer) AlertList(lines []string) string {
	var b strings.Builder
	b.WriteString("\n🔔 **Your Alerts**\n")

	if len(lines) == 0 {
		b.WriteString("No alerts configured. Try \"Set alert BTC 50000\".\n")
		return b.String()
	}

	for _, l := range lines {
		fmt.Fprintf(&b, "  %s\n", l)
	}
	return b.String()
}

// Error renders an error message for display.
func (c *Composer) Error(message string) string {
	return fmt.Sprintf("\n❌ **Error**: %s\n\nPlease try again or type 'help'.", message)
}

func componentValue(result *scoring.ScoringResult, cat scoring.Category) string {
	if result.ComponentScores == nil {
		return Placeholder
	}
	v, ok := result.ComponentScores[string(cat)]
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%.0f", v)
}

func categoryLabel(cat scoring.Category) string {
	switch cat {
	case scoring.CategoryFundamentals:
		return "Fundamentals"
	case scoring.CategoryTechnicals:
		return "Technicals"
	case scoring.CategorySentiment:
		return "Sentiment"
	case scoring.CategorySmartMoney:
		return "Smart Money"
	default:
		return string(cat)
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func top5(movers []marketdata.Mover) []marketdata.Mover {
	if len(movers) > 5 {
		return movers[:5]
	}
	return movers
}
