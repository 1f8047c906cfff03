package marketdata

import (
	"context"
	"time"

	"github.com/coinscan/backend/internal/scoring"
)

// Direction selects which side of the movers leaderboard to return.
type Direction string

const (
	DirectionGainers Direction = "gainers"
	DirectionLosers  Direction = "losers"
)

// Overview is a coarse snapshot of overall market conditions.
type Overview struct {
	BTCPriceUSD       float64   `json:"btc_price_usd"`
	BTCDominancePct   float64   `json:"btc_dominance_pct"`
	ETHDominancePct   float64   `json:"eth_dominance_pct"`
	TotalMarketCapUSD float64   `json:"total_market_cap_usd"`
	Volume24hUSD      float64   `json:"volume_24h_usd"`
	Sentiment         string    `json:"sentiment"`
	Trend             string    `json:"trend"`
	Timestamp         time.Time `json:"timestamp"`
}

// Mover is one entry in the 24h gainers/losers leaderboard.
type Mover struct {
	Symbol     string  `json:"symbol"`
	ChangePct  float64 `json:"change_pct"`
}

// Provider supplies per-token metrics and market snapshots to the engines.
// The scoring core never fetches data itself; this is the boundary it
// consumes data through.
type Provider interface {
	// Metrics returns the metrics snapshot for a symbol. Unknown symbols
	// return a sparse record, not an error: absent fields degrade scoring
	// confidence rather than failing the call.
	Metrics(ctx context.Context, symbol string) (scoring.Metrics, error)

	// Overview returns overall market conditions.
	Overview(ctx context.Context) (Overview, error)

	// TopMovers returns up to limit movers for the given direction,
	// best (or worst) first.
	TopMovers(ctx context.Context, direction Direction, limit int) ([]Mover, error)
}
