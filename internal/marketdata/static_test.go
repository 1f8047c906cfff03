package marketdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Metrics(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	t.Run("known symbol", func(t *testing.T) {
		m, err := p.Metrics(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, "BTC", m.Symbol)
		require.NotNil(t, m.Price)
		assert.Equal(t, 42500.50, *m.Price)
	})

	t.Run("case insensitive lookup", func(t *testing.T) {
		m, err := p.Metrics(ctx, "btc")
		require.NoError(t, err)
		assert.NotNil(t, m.Price)
	})

	t.Run("unknown symbol yields sparse record", func(t *testing.T) {
		m, err := p.Metrics(ctx, "ZZZZZ")
		require.NoError(t, err)
		assert.Equal(t, "ZZZZZ", m.Symbol)
		assert.Nil(t, m.Price)
		assert.Nil(t, m.MarketCapUSD)
	})
}

func TestStaticProvider_Overview(t *testing.T) {
	p := NewStaticProvider()

	ov, err := p.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 45.2, ov.BTCDominancePct)
	assert.Equal(t, 1.2e12, ov.TotalMarketCapUSD)
	assert.Equal(t, "NEUTRAL", ov.Sentiment)
	assert.False(t, ov.Timestamp.IsZero())
}

func TestStaticProvider_TopMovers(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	t.Run("gainers descending", func(t *testing.T) {
		movers, err := p.TopMovers(ctx, DirectionGainers, 10)
		require.NoError(t, err)
		require.NotEmpty(t, movers)

		assert.Equal(t, "PEPE", movers[0].Symbol)
		for i := 1; i < len(movers); i++ {
			assert.GreaterOrEqual(t, movers[i-1].ChangePct, movers[i].ChangePct)
		}
	})

	t.Run("losers ascending", func(t *testing.T) {
		movers, err := p.TopMovers(ctx, DirectionLosers, 10)
		require.NoError(t, err)
		require.NotEmpty(t, movers)

		assert.Equal(t, "BTC", movers[0].Symbol)
		for i := 1; i < len(movers); i++ {
			assert.LessOrEqual(t, movers[i-1].ChangePct, movers[i].ChangePct)
		}
	})

	t.Run("limit respected", func(t *testing.T) {
		movers, err := p.TopMovers(ctx, DirectionGainers, 2)
		require.NoError(t, err)
		assert.Len(t, movers, 2)
	})

	t.Run("unknown direction is empty", func(t *testing.T) {
		movers, err := p.TopMovers(ctx, Direction("sideways"), 10)
		require.NoError(t, err)
		assert.Empty(t, movers)
	})
}
