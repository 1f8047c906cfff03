package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/coinscan/backend/pkg/logger"
)

// Signal is a discrete trading recommendation derived from the grade.
type Signal string

const (
	SignalStrongBuy  Signal = "Strong Buy"
	SignalBuy        Signal = "Buy"
	SignalHold       Signal = "Hold"
	SignalSell       Signal = "Sell"
	SignalStrongSell Signal = "Strong Sell"
)

// ScoringResult is the full output of one scoring pass for a single token.
// Produced fresh per call; only the timestamp differs between identical inputs.
type ScoringResult struct {
	TokenSymbol     string             `json:"token_symbol"`
	Grade           int                `json:"grade"`
	Signal          Signal             `json:"signal"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Confidence      float64            `json:"confidence"`
	Reasoning       string             `json:"reasoning"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Engine is the multi-factor scoring engine. It is stateless and safe for
// concurrent use; the RuleTable is passed per call and never mutated.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new scoring engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Score calculates the 0-100 grade and trading signal for a token.
// It is total: any combination of present/absent metric fields is legal, and
// absent fields simply skip their contribution.
func (e *Engine) Score(m Metrics, rules RuleTable) ScoringResult {
	fundamentals := scoreFundamentals(m)
	technicals := scoreTechnicals(m)
	sentiment := scoreSentiment(m)
	smartMoney := scoreSmartMoney(m)

	weightFund := rules.Weight(CategoryFundamentals)
	weightTech := rules.Weight(CategoryTechnicals)
	weightSent := rules.Weight(CategorySentiment)
	weightSmart := rules.Weight(CategorySmartMoney)

	totalWeight := weightFund + weightTech + weightSent + weightSmart
	if totalWeight == 0 {
		// Degenerate rule table: avoid division by zero, never fail.
		totalWeight = 1.0
	}

	ensemble := (fundamentals*weightFund +
		technicals*weightTech +
		sentiment*weightSent +
		smartMoney*weightSmart) / totalWeight

	grade := int(clamp(math.Round(ensemble), 0, 100))
	signal := GradeToSignal(grade)

	components := map[string]float64{
		string(CategoryFundamentals): round2(fundamentals),
		string(CategoryTechnicals):   round2(technicals),
		string(CategorySentiment):    round2(sentiment),
		string(CategorySmartMoney):   round2(smartMoney),
		"ensemble":                   round2(ensemble),
	}

	result := ScoringResult{
		TokenSymbol:     m.Symbol,
		Grade:           grade,
		Signal:          signal,
		ComponentScores: components,
		Confidence:      calculateConfidence(m),
		Reasoning:       buildReasoning(m.Symbol, grade, components),
		Timestamp:       time.Now().UTC(),
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol": m.Symbol,
		"grade":  grade,
		"signal": signal,
	}).Debug("Scored token")

	return result
}

// scoreFundamentals scores market cap, TVL and development activity.
// Each metric contributes at most once, using the highest band it satisfies.
func scoreFundamentals(m Metrics) float64 {
	score := 50.0

	if m.MarketCapUSD != nil {
		switch {
		case *m.MarketCapUSD > 1e9:
			score += 20
		case *m.MarketCapUSD > 100e6:
			score += 15
		case *m.MarketCapUSD > 10e6:
			score += 10
		}
	}

	if m.TVLUSD != nil {
		switch {
		case *m.TVLUSD > 500e6:
			score += 15
		case *m.TVLUSD > 100e6:
			score += 10
		case *m.TVLUSD > 10e6:
			score += 5
		}
	}

	if m.GithubCommits90d != nil {
		switch {
		case *m.GithubCommits90d > 200:
			score += 15
		case *m.GithubCommits90d > 100:
			score += 10
		case *m.GithubCommits90d > 50:
			score += 5
		}
	}

	if m.GithubStars != nil {
		switch {
		case *m.GithubStars > 20000:
			score += 10
		case *m.GithubStars > 5000:
			score += 5
		}
	}

	return clamp(score, 0, 100)
}

// scoreTechnicals scores price action and momentum indicators.
func scoreTechnicals(m Metrics) float64 {
	score := 50.0

	if m.RSI14 != nil {
		switch {
		case *m.RSI14 > 30 && *m.RSI14 < 70:
			score += 5
		case *m.RSI14 < 30: // oversold
			score += 15
		case *m.RSI14 > 70: // overbought
			score -= 10
		}
	}

	if m.MACD != nil {
		if *m.MACD > 0 {
			score += 10
		} else {
			score -= 5
		}
	}

	// Moving-average cross: equal averages adjust nothing.
	if m.SMA50 != nil && m.SMA200 != nil {
		if *m.SMA50 > *m.SMA200 {
			score += 15
		} else if *m.SMA50 < *m.SMA200 {
			score -= 10
		}
	}

	// Volume/market-cap ratio needs both fields present and nonzero.
	if m.Volume24hUSD != nil && m.MarketCapUSD != nil &&
		*m.Volume24hUSD != 0 && *m.MarketCapUSD != 0 {
		ratio := *m.Volume24hUSD / *m.MarketCapUSD
		if ratio > 0.05 {
			score += 10
		} else if ratio < 0.01 {
			score -= 10
		}
	}

	if m.ATR14 != nil && *m.ATR14 < 5 { // low volatility
		score += 5
	}

	return clamp(score, 0, 100)
}

// scoreSentiment scores social and news sentiment indicators.
func scoreSentiment(m Metrics) float64 {
	score := 50.0

	if m.SentimentScore != nil {
		switch {
		case *m.SentimentScore > 0.5:
			score += 20
		case *m.SentimentScore > 0.2:
			score += 10
		case *m.SentimentScore < -0.5:
			score -= 20
		case *m.SentimentScore < -0.2:
			score -= 10
		}
	}

	if m.SocialVolume24h != nil {
		if *m.SocialVolume24h > 100000 {
			score += 10
		} else if *m.SocialVolume24h < 1000 {
			score -= 5
		}
	}

	if m.MentionsPositive != nil && m.MentionsNegative != nil {
		ratio := *m.MentionsPositive / (*m.MentionsNegative + 1)
		if ratio > 3 {
			score += 15
		} else if ratio < 0.5 {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

// scoreSmartMoney scores whale activity, exchange flows and holder spread.
func scoreSmartMoney(m Metrics) float64 {
	score := 50.0

	if m.WhaleTransactions24h != nil {
		if *m.WhaleTransactions24h > 50 {
			score += 10
		} else if *m.WhaleTransactions24h > 20 {
			score += 5
		}
	}

	if m.ExchangeNetflow != nil {
		if *m.ExchangeNetflow > 0 {
			// Large inflow to exchanges reads as sell pressure.
			if *m.ExchangeNetflow > 10e6 {
				score -= 5
			}
		} else {
			// Net outflow is bullish.
			score += 10
		}
	}

	if m.HolderConcentration != nil {
		switch {
		case *m.HolderConcentration < 0.3:
			score += 15
		case *m.HolderConcentration < 0.5:
			score += 5
		default:
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

// GradeToSignal converts a numeric grade to a trading signal.
func GradeToSignal(grade int) Signal {
	switch {
	case grade >= 90:
		return SignalStrongBuy
	case grade >= 75:
		return SignalBuy
	case grade >= 50:
		return SignalHold
	case grade >= 25:
		return SignalSell
	default:
		return SignalStrongSell
	}
}

// calculateConfidence derives confidence from data availability: three
// required fields plus five optional ones, divided by 12 and floored at 0.5.
// The divisor is 12 by contract even though only 8 fields are counted.
func calculateConfidence(m Metrics) float64 {
	available := 0

	for _, f := range []*float64{m.Price, m.MarketCapUSD, m.Volume24hUSD} {
		if f != nil {
			available++
		}
	}

	for _, f := range []*float64{m.RSI14, m.MACD, m.SMA50, m.SentimentScore, m.WhaleTransactions24h} {
		if f != nil {
			available++
		}
	}

	return round2(clamp(float64(available)/12, 0.5, 1.0))
}

// buildReasoning generates a short pipe-delimited explanation naming the
// strongest and weakest category. Ties go to the earlier category in the
// canonical order.
func buildReasoning(symbol string, grade int, components map[string]float64) string {
	parts := []string{
		fmt.Sprintf("%s scored %d/100", symbol, grade),
		fmt.Sprintf("(%s)", GradeToSignal(grade)),
	}

	best, worst := Categories[0], Categories[0]
	for _, c := range Categories[1:] {
		if components[string(c)] > components[string(best)] {
			best = c
		}
		if components[string(c)] < components[string(worst)] {
			worst = c
		}
	}

	parts = append(parts,
		fmt.Sprintf("Strongest: %s (%s/100)", capitalize(string(best)), formatScore(components[string(best)])),
		fmt.Sprintf("Weakest: %s (%s/100)", capitalize(string(worst)), formatScore(components[string(worst)])),
	)

	return strings.Join(parts, " | ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
