package marketdata

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/coinscan/backend/internal/scoring"
)

// StaticProvider serves metrics from a fixed in-memory table. It stands in
// for the live data-acquisition collaborator, which is out of scope: the
// engines only ever see the Provider boundary. Unknown symbols yield a
// sparse record so scoring degrades to the confidence floor instead of
// failing.
type StaticProvider struct {
	metrics map[string]scoring.Metrics
	movers  map[Direction][]Mover
}

// NewStaticProvider creates a provider preloaded with fixture data for a
// handful of large-cap tokens.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		metrics: fixtureMetrics(),
		movers: map[Direction][]Mover{
			DirectionGainers: {
				{Symbol: "PEPE", ChangePct: 45.2},
				{Symbol: "SHIB", ChangePct: 32.1},
				{Symbol: "DOGE", ChangePct: 28.5},
				{Symbol: "XRP", ChangePct: 25.3},
				{Symbol: "ADA", ChangePct: 22.1},
			},
			DirectionLosers: {
				{Symbol: "BTC", ChangePct: -5.2},
				{Symbol: "ETH", ChangePct: -4.8},
				{Symbol: "SOL", ChangePct: -3.2},
				{Symbol: "AVAX", ChangePct: -2.9},
				{Symbol: "MATIC", ChangePct: -2.1},
			},
		},
	}
}

// Metrics returns the fixture snapshot for a symbol, or a sparse record for
// symbols the table does not know.
func (p *StaticProvider) Metrics(_ context.Context, symbol string) (scoring.Metrics, error) {
	symbol = strings.ToUpper(symbol)
	if m, ok := p.metrics[symbol]; ok {
		return m, nil
	}
	return scoring.Metrics{Symbol: symbol}, nil
}

// Overview returns a fixed market snapshot.
func (p *StaticProvider) Overview(_ context.Context) (Overview, error) {
	return Overview{
		BTCPriceUSD:       42500.50,
		BTCDominancePct:   45.2,
		ETHDominancePct:   18.5,
		TotalMarketCapUSD: 1.2e12,
		Volume24hUSD:      45e9,
		Sentiment:         "NEUTRAL",
		Trend:             "sideways",
		Timestamp:         time.Now().UTC(),
	}, nil
}

// TopMovers returns up to limit movers for the direction, ordered by
// magnitude. The ordering is stable for reproducible rendering.
func (p *StaticProvider) TopMovers(_ context.Context, direction Direction, limit int) ([]Mover, error) {
	movers, ok := p.movers[direction]
	if !ok {
		return []Mover{}, nil
	}

	out := make([]Mover, len(movers))
	copy(out, movers)
	sort.SliceStable(out, func(i, j int) bool {
		if direction == DirectionLosers {
			return out[i].ChangePct < out[j].ChangePct
		}
		return out[i].ChangePct > out[j].ChangePct
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func fixtureMetrics() map[string]scoring.Metrics {
	f := scoring.Float
	return map[string]scoring.Metrics{
		"BTC": {
			Symbol:               "BTC",
			Price:                f(42500.50),
			MarketCapUSD:         f(830e9),
			Volume24hUSD:         f(25e9),
			GithubCommits90d:     f(420),
			GithubStars:          f(72000),
			RSI14:                f(55),
			MACD:                 f(120.5),
			SMA50:                f(41200),
			SMA200:               f(38900),
			ATR14:                f(3.2),
			SentimentScore:       f(0.35),
			SocialVolume24h:      f(250000),
			MentionsPositive:     f(12000),
			MentionsNegative:     f(3000),
			WhaleTransactions24h: f(65),
			ExchangeNetflow:      f(-32e6),
			HolderConcentration:  f(0.12),
		},
		"ETH": {
			Symbol:               "ETH",
			Price:                f(2280.10),
			MarketCapUSD:         f(274e9),
			TVLUSD:               f(28e9),
			Volume24hUSD:         f(12e9),
			GithubCommits90d:     f(610),
			GithubStars:          f(45000),
			RSI14:                f(48),
			MACD:                 f(-8.3),
			SMA50:                f(2310),
			SMA200:               f(2150),
			ATR14:                f(4.1),
			SentimentScore:       f(0.22),
			SocialVolume24h:      f(180000),
			MentionsPositive:     f(8000),
			MentionsNegative:     f(2600),
			WhaleTransactions24h: f(41),
			ExchangeNetflow:      f(-12e6),
			HolderConcentration:  f(0.21),
		},
		"SOL": {
			Symbol:               "SOL",
			Price:                f(98.45),
			MarketCapUSD:         f(42e9),
			TVLUSD:               f(1.4e9),
			Volume24hUSD:         f(2.8e9),
			GithubCommits90d:     f(350),
			GithubStars:          f(11500),
			RSI14:                f(62),
			MACD:                 f(1.9),
			SMA50:                f(92.1),
			SMA200:               f(71.4),
			ATR14:                f(6.8),
			SentimentScore:       f(0.55),
			SocialVolume24h:      f(140000),
			MentionsPositive:     f(6400),
			MentionsNegative:     f(1500),
			WhaleTransactions24h: f(28),
			ExchangeNetflow:      f(4.2e6),
			HolderConcentration:  f(0.34),
		},
		"ADA": {
			Symbol:              "ADA",
			Price:               f(0.52),
			MarketCapUSD:        f(18e9),
			Volume24hUSD:        f(410e6),
			GithubCommits90d:    f(180),
			GithubStars:         f(3400),
			RSI14:               f(41),
			MACD:                f(-0.004),
			SMA50:               f(0.55),
			SMA200:              f(0.48),
			SentimentScore:      f(-0.1),
			SocialVolume24h:     f(52000),
			HolderConcentration: f(0.27),
		},
		"DOGE": {
			Symbol:          "DOGE",
			Price:           f(0.081),
			MarketCapUSD:    f(11.5e9),
			Volume24hUSD:    f(520e6),
			RSI14:           f(71),
			MACD:            f(0.0012),
			SentimentScore:  f(0.62),
			SocialVolume24h: f(310000),
		},
		"XRP": {
			Symbol:       "XRP",
			Price:        f(0.55),
			MarketCapUSD: f(29e9),
			Volume24hUSD: f(1.1e9),
			RSI14:        f(58),
		},
		"AVAX": {
			Symbol:       "AVAX",
			Price:        f(36.20),
			MarketCapUSD: f(13e9),
			TVLUSD:       f(850e6),
			Volume24hUSD: f(480e6),
			RSI14:        f(44),
			MACD:         f(-0.6),
		},
		"MATIC": {
			Symbol:       "MATIC",
			Price:        f(0.84),
			MarketCapUSD: f(7.8e9),
			TVLUSD:       f(920e6),
			Volume24hUSD: f(320e6),
		},
		"PEPE": {
			Symbol:              "PEPE",
			Price:               f(0.0000012),
			MarketCapUSD:        f(500e6),
			Volume24hUSD:        f(95e6),
			RSI14:               f(82),
			SentimentScore:      f(0.71),
			SocialVolume24h:     f(420000),
			HolderConcentration: f(0.61),
		},
		"SHIB": {
			Symbol:          "SHIB",
			Price:           f(0.0000095),
			MarketCapUSD:    f(5.6e9),
			Volume24hUSD:    f(180e6),
			RSI14:           f(76),
			SentimentScore:  f(0.48),
			SocialVolume24h: f(280000),
		},
	}
}
