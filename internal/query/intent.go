package query

// Intent is the classified purpose of a user query, drawn from a fixed set.
type Intent string

const (
	IntentScoreToken       Intent = "score_token"
	IntentAnalyzePortfolio Intent = "analyze_portfolio"
	IntentCompareTokens    Intent = "compare_tokens"
	IntentGetAlerts        Intent = "get_alerts"
	IntentSetAlert         Intent = "set_alert"
	IntentMarketOverview   Intent = "market_overview"
	IntentTopPerformers    Intent = "top_performers"
	IntentExplainScore     Intent = "explain_score"
	IntentHelp             Intent = "help"
	IntentUnknown          Intent = "unknown"
)

// ParsedQuery is the structured form of a free-text user query.
// It is immutable once produced by Parse.
type ParsedQuery struct {
	Intent       Intent   `json:"intent"`
	Tokens       []string `json:"tokens"`
	PortfolioIDs []string `json:"portfolio_ids"`
	TimePeriod   string   `json:"time_period,omitempty"`
	Limit        int      `json:"limit"`
	Confidence   float64  `json:"confidence"`
	RawQuery     string   `json:"raw_query"`
}
