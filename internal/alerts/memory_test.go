package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAssignsDefaults(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.Create(context.Background(), Alert{
		Symbol:     "BTC",
		PriceLevel: 50000,
		Condition:  ConditionAbove,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, StatusActive, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	second, err := store.Create(context.Background(), Alert{Symbol: "ETH", PriceLevel: 2000})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryStore_ListFiltersByStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, _ := store.Create(ctx, Alert{Symbol: "BTC", PriceLevel: 50000})
	store.Create(ctx, Alert{Symbol: "ETH", PriceLevel: 2000})

	require.NoError(t, store.MarkTriggered(ctx, a.ID, time.Now().UTC()))

	active, err := store.List(ctx, StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ETH", active[0].Symbol)

	triggered, err := store.List(ctx, StatusTriggered)
	require.NoError(t, err)
	require.Len(t, triggered, 1)
	assert.Equal(t, "BTC", triggered[0].Symbol)
	assert.False(t, triggered[0].TriggeredAt.IsZero())

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStore_ListOrderedByID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, sym := range []string{"SOL", "BTC", "ETH"} {
		store.Create(ctx, Alert{Symbol: sym, PriceLevel: 1})
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SOL", all[0].Symbol)
	assert.Equal(t, "ETH", all[2].Symbol)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, _ := store.Create(ctx, Alert{Symbol: "BTC", PriceLevel: 50000})

	require.NoError(t, store.Delete(ctx, a.ID))

	err := store.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MarkTriggeredUnknownID(t *testing.T) {
	store := NewMemoryStore()
	err := store.MarkTriggered(context.Background(), 99, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotFound)
}
