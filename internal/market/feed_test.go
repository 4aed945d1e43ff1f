package market

import (
	"sync"
	"testing"

	"energy-trading-platform/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_SnapshotCoversEveryCommodity(t *testing.T) {
	f := NewFeed(0.02, 42)

	quotes := f.Snapshot()
	require.Len(t, quotes, len(trade.Commodities))
	for i, q := range quotes {
		assert.Equal(t, trade.Commodities[i].String(), q.Commodity)
		assert.Positive(t, q.Price)
		assert.NotEmpty(t, q.Unit)
		assert.False(t, q.Timestamp.IsZero())
	}
}

func TestFeed_QuoteStaysWithinVolatility(t *testing.T) {
	f := NewFeed(0.05, 7)

	prev := references[trade.Oil].price
	for i := 0; i < 200; i++ {
		q, ok := f.Quote(trade.Oil)
		require.True(t, ok)
		// Rounding to cents can add at most half a cent.
		assert.LessOrEqual(t, abs(q.Price-prev), prev*0.05+0.005)
		assert.InDelta(t, q.Price-prev, q.Change, 0.011)
		assert.GreaterOrEqual(t, q.Price, references[trade.Oil].price/2)
		assert.LessOrEqual(t, q.Price, references[trade.Oil].price*2)
		prev = q.Price
	}
}

func TestFeed_SameSeedSameWalk(t *testing.T) {
	a, b := NewFeed(0.02, 99), NewFeed(0.02, 99)
	for i := 0; i < 10; i++ {
		qa, _ := a.Quote(trade.Coal)
		qb, _ := b.Quote(trade.Coal)
		assert.Equal(t, qa.Price, qb.Price)
	}
}

func TestFeed_UnknownCommodity(t *testing.T) {
	_, ok := NewFeed(0.02, 1).Quote(trade.Commodity("uranium"))
	assert.False(t, ok)
}

func TestFeed_ConcurrentUse(t *testing.T) {
	f := NewFeed(0.02, 3)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.Snapshot()
			}
		}()
	}
	wg.Wait()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
