package query

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxTokens    = 10
	defaultLimit = 10
	maxLimit     = 100
)

// Uppercase English words that look like ticker symbols but are not.
var symbolStoplist = map[string]bool{
	"THE": true, "AND": true, "ARE": true,
	"FOR": true, "WITH": true, "THAT": true,
}

var (
	symbolRe    = regexp.MustCompile(`\b[A-Z]{3,5}\b`)
	portfolioRe = regexp.MustCompile(`(?i)port(?:folio)?[_-]?(\w+)`)
	limitRe     = regexp.MustCompile(`(?i)(?:top|get|show|list)\s+(\d+)`)
)

// timePatterns are checked in fixed priority order; first match wins.
var timePatterns = []struct {
	re     *regexp.Regexp
	period string
}{
	{regexp.MustCompile(`(?i)\b1h\b|\bone\s+hour`), "1h"},
	{regexp.MustCompile(`(?i)\b4h\b|\bfour\s+hour`), "4h"},
	{regexp.MustCompile(`(?i)\b1d\b|\bone\s+day`), "1d"},
	{regexp.MustCompile(`(?i)\b1w\b|\bone\s+week`), "1w"},
	{regexp.MustCompile(`(?i)\b1m\b|\b1mo\b|\bone\s+month`), "1mo"},
}

// intentRule pairs a keyword family with the intent it maps to, plus an
// optional entity requirement. Rules are evaluated in declared order and the
// first keyword match decides; a failed entity check yields Unknown rather
// than falling through to later rules.
type intentRule struct {
	keywords []string
	resolve  func(p *ParsedQuery, lower string) Intent
}

var intentRules = []intentRule{
	{
		keywords: []string{"score", "rate", "grade", "how good"},
		resolve: func(p *ParsedQuery, _ string) Intent {
			if len(p.Tokens) >= 1 {
				return IntentScoreToken
			}
			return IntentUnknown
		},
	},
	{
		keywords: []string{"portfolio", "holdings", "my tokens"},
		resolve: func(p *ParsedQuery, _ string) Intent {
			if len(p.PortfolioIDs) >= 1 {
				return IntentAnalyzePortfolio
			}
			return IntentUnknown
		},
	},
	{
		keywords: []string{"compare", "vs", "versus", "better"},
		resolve: func(p *ParsedQuery, _ string) Intent {
			if len(p.Tokens) >= 2 {
				return IntentCompareTokens
			}
			return IntentUnknown
		},
	},
	{
		keywords: []string{"alert", "notify me", "remind me"},
		resolve: func(_ *ParsedQuery, lower string) Intent {
			if strings.Contains(lower, "set") {
				return IntentSetAlert
			}
			return IntentGetAlerts
		},
	},
	{
		keywords: []string{"market", "overview", "status"},
		resolve: func(_ *ParsedQuery, _ string) Intent { return IntentMarketOverview },
	},
	{
		keywords: []string{"top", "best", "worst", "gainers"},
		resolve: func(_ *ParsedQuery, _ string) Intent { return IntentTopPerformers },
	},
	{
		keywords: []string{"explain", "scoring", "methodology"},
		resolve: func(_ *ParsedQuery, _ string) Intent { return IntentExplainScore },
	},
	{
		keywords: []string{"help", "commands", "usage"},
		resolve: func(_ *ParsedQuery, _ string) Intent { return IntentHelp },
	},
}

// Parser turns free-text analyst queries into a ParsedQuery. It is
// deterministic, side-effect free and total: no input fails, unmatched
// queries fall back to IntentUnknown.
type Parser struct{}

// NewParser creates a new query parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses user input into structured intent and parameters.
// Keyword matching runs on the lowercased text; entity extraction runs on
// the original-case text because ticker symbols are case-sensitive.
func (p *Parser) Parse(text string) ParsedQuery {
	lower := strings.ToLower(strings.TrimSpace(text))

	parsed := ParsedQuery{
		Tokens:       extractTokens(text),
		PortfolioIDs: extractPortfolioIDs(text),
		TimePeriod:   extractTimePeriod(text),
		Limit:        extractLimit(text),
		RawQuery:     text,
	}

	parsed.Intent = detectIntent(&parsed, lower)
	parsed.Confidence = calculateConfidence(lower, parsed.Intent)

	return parsed
}

// detectIntent walks the ordered rule cascade; first keyword match wins.
// The cascade order encodes precedence and must be preserved exactly.
func detectIntent(parsed *ParsedQuery, lower string) Intent {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.resolve(parsed, lower)
			}
		}
	}
	return IntentUnknown
}

// calculateConfidence scores how confident the classification is.
func calculateConfidence(lower string, intent Intent) float64 {
	if intent == IntentUnknown {
		return 0.3
	}

	confidence := 0.7
	if len(strings.Fields(lower)) > 5 {
		confidence += 0.1
	}

	for _, hedge := range []string{"maybe", "possibly", "not sure"} {
		if strings.Contains(lower, hedge) {
			confidence -= 0.2
			break
		}
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// extractTokens pulls ticker symbols: 3-5 consecutive uppercase letters,
// word-bounded, minus the stoplist, deduplicated and capped at 10.
func extractTokens(text string) []string {
	matches := symbolRe.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if symbolStoplist[m] || seen[m] {
			continue
		}
		seen[m] = true
		tokens = append(tokens, m)
		if len(tokens) == maxTokens {
			break
		}
	}

	return tokens
}

// extractPortfolioIDs pulls portfolio identifiers like "portfolio_1" or "port-abc".
func extractPortfolioIDs(text string) []string {
	matches := portfolioRe.FindAllStringSubmatch(text, -1)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}

	return ids
}

// extractTimePeriod returns the first matching period in priority order,
// or empty string when none match.
func extractTimePeriod(text string) string {
	for _, tp := range timePatterns {
		if tp.re.MatchString(text) {
			return tp.period
		}
	}
	return ""
}

// extractLimit returns the first integer following top/get/show/list,
// clamped to [1,100], defaulting to 10.
func extractLimit(text string) int {
	m := limitRe.FindStringSubmatch(text)
	if m == nil {
		return defaultLimit
	}

	limit, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultLimit
	}

	if limit < 1 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
