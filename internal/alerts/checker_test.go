package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscan/backend/internal/marketdata"
	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/logger"
)

// fixedProvider serves a fixed price table. The checker only ever calls
// Metrics; the other Provider methods return empty values.
type fixedProvider struct {
	prices map[string]float64
}

func (p *fixedProvider) Metrics(_ context.Context, symbol string) (scoring.Metrics, error) {
	m := scoring.Metrics{Symbol: symbol}
	if price, ok := p.prices[symbol]; ok {
		m.Price = scoring.Float(price)
	}
	return m, nil
}

func (p *fixedProvider) Overview(context.Context) (marketdata.Overview, error) {
	return marketdata.Overview{}, nil
}

func (p *fixedProvider) TopMovers(context.Context, marketdata.Direction, int) ([]marketdata.Mover, error) {
	return nil, nil
}

func TestRunOnce_TriggersCrossedAlerts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	above, _ := store.Create(ctx, Alert{Symbol: "BTC", PriceLevel: 40000, Condition: ConditionAbove})
	below, _ := store.Create(ctx, Alert{Symbol: "ETH", PriceLevel: 3000, Condition: ConditionBelow})
	untouched, _ := store.Create(ctx, Alert{Symbol: "SOL", PriceLevel: 500, Condition: ConditionAbove})

	provider := &fixedProvider{prices: map[string]float64{
		"BTC": 42500, // above 40000, triggers
		"ETH": 2280,  // below 3000, triggers
		"SOL": 98,    // far below 500, stays active
	}}

	checker := NewChecker(store, provider, time.Minute, logger.NewNop())
	require.NoError(t, checker.RunOnce(ctx))

	triggered, _ := store.List(ctx, StatusTriggered)
	require.Len(t, triggered, 2)
	ids := []int64{triggered[0].ID, triggered[1].ID}
	assert.Contains(t, ids, above.ID)
	assert.Contains(t, ids, below.ID)

	active, _ := store.List(ctx, StatusActive)
	require.Len(t, active, 1)
	assert.Equal(t, untouched.ID, active[0].ID)
}

func TestRunOnce_ExactLevelTriggers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Create(ctx, Alert{Symbol: "BTC", PriceLevel: 42500, Condition: ConditionAbove})

	provider := &fixedProvider{prices: map[string]float64{"BTC": 42500}}
	checker := NewChecker(store, provider, time.Minute, logger.NewNop())
	require.NoError(t, checker.RunOnce(ctx))

	triggered, _ := store.List(ctx, StatusTriggered)
	assert.Len(t, triggered, 1)
}

func TestRunOnce_MissingPriceSkips(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Create(ctx, Alert{Symbol: "XYZ", PriceLevel: 1, Condition: ConditionAbove})

	provider := &fixedProvider{prices: map[string]float64{}}
	checker := NewChecker(store, provider, time.Minute, logger.NewNop())
	require.NoError(t, checker.RunOnce(ctx))

	active, _ := store.List(ctx, StatusActive)
	assert.Len(t, active, 1)
}

func TestRunOnce_TriggeredAlertsNotRechecked(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, _ := store.Create(ctx, Alert{Symbol: "BTC", PriceLevel: 40000, Condition: ConditionAbove})
	require.NoError(t, store.MarkTriggered(ctx, a.ID, time.Now().UTC()))

	provider := &fixedProvider{prices: map[string]float64{"BTC": 42500}}
	checker := NewChecker(store, provider, time.Minute, logger.NewNop())
	require.NoError(t, checker.RunOnce(ctx))

	triggered, _ := store.List(ctx, StatusTriggered)
	assert.Len(t, triggered, 1)
}

func TestCrossed(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		level     float64
		price     float64
		want      bool
	}{
		{"above crossed", ConditionAbove, 100, 150, true},
		{"above not crossed", ConditionAbove, 100, 50, false},
		{"above exact", ConditionAbove, 100, 100, true},
		{"below crossed", ConditionBelow, 100, 50, true},
		{"below not crossed", ConditionBelow, 100, 150, false},
		{"below exact", ConditionBelow, 100, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := Alert{Condition: tt.condition, PriceLevel: tt.level}
			assert.Equal(t, tt.want, crossed(alert, tt.price))
		})
	}
}
