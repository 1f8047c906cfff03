package scoring

// Metrics is a flat snapshot of per-token market data used by the scoring engine.
// Every field is optional: nil means "unknown" and the metric is skipped during
// scoring. A present zero is meaningful data (e.g. ExchangeNetflow of 0) and is
// never conflated with absence.
type Metrics struct {
	Symbol string `json:"symbol"`

	// Fundamentals
	Price            *float64 `json:"price,omitempty"`
	MarketCapUSD     *float64 `json:"market_cap_usd,omitempty"`
	TVLUSD           *float64 `json:"tvl_usd,omitempty"`
	GithubCommits90d *float64 `json:"github_commits_90d,omitempty"`
	GithubStars      *float64 `json:"github_stars,omitempty"`

	// Technicals
	RSI14        *float64 `json:"rsi_14,omitempty"`
	MACD         *float64 `json:"macd,omitempty"`
	SMA50        *float64 `json:"sma_50,omitempty"`
	SMA200       *float64 `json:"sma_200,omitempty"`
	Volume24hUSD *float64 `json:"volume_24h_usd,omitempty"`
	ATR14        *float64 `json:"atr_14,omitempty"`

	// Sentiment
	SentimentScore   *float64 `json:"sentiment_score,omitempty"`
	SocialVolume24h  *float64 `json:"social_volume_24h,omitempty"`
	MentionsPositive *float64 `json:"mentions_positive,omitempty"`
	MentionsNegative *float64 `json:"mentions_negative,omitempty"`

	// Smart money
	WhaleTransactions24h *float64 `json:"whale_transactions_24h,omitempty"`
	ExchangeNetflow      *float64 `json:"exchange_netflow,omitempty"`
	HolderConcentration  *float64 `json:"holder_concentration,omitempty"`
}

// Float is a convenience constructor for optional metric fields.
func Float(v float64) *float64 {
	return &v
}
