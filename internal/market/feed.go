// Package market simulates a market-data feed for the supported
// commodities. Nothing here is persisted.
package market

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"energy-trading-platform/internal/trade"
)

// Quote is one simulated price observation.
type Quote struct {
	Commodity string    `json:"commodity"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}

// reference is the starting price and unit of a commodity.
type reference struct {
	price float64
	unit  string
}

var references = map[trade.Commodity]reference{
	trade.Electricity: {price: 100, unit: "USD/MWh"},
	trade.Oil:         {price: 80, unit: "USD/barrel"},
	trade.Gas:         {price: 5, unit: "USD/MMBtu"},
	trade.NaturalGas:  {price: 5, unit: "USD/MMBtu"},
	trade.Coal:        {price: 60, unit: "USD/ton"},
	trade.Renewable:   {price: 75, unit: "USD/MWh"},
}

// Feed walks each commodity's price randomly around its reference.
// It is safe for concurrent use.
type Feed struct {
	mu         sync.Mutex
	rng        *rand.Rand
	volatility float64
	last       map[trade.Commodity]float64
	now        func() time.Time
}

// NewFeed creates a feed whose quotes move at most volatility (relative)
// per call. A zero seed uses the clock.
func NewFeed(volatility float64, seed int64) *Feed {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if volatility <= 0 {
		volatility = 0.02
	}
	last := make(map[trade.Commodity]float64, len(references))
	for c, ref := range references {
		last[c] = ref.price
	}
	return &Feed{
		rng:        rand.New(rand.NewSource(seed)),
		volatility: volatility,
		last:       last,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Quote returns the next quote for one commodity.
func (f *Feed) Quote(c trade.Commodity) (Quote, bool) {
	if !c.Valid() {
		return Quote{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next(c), true
}

// Snapshot returns the next quote for every commodity, in the order of
// trade.Commodities.
func (f *Feed) Snapshot() []Quote {
	f.mu.Lock()
	defer f.mu.Unlock()

	quotes := make([]Quote, 0, len(trade.Commodities))
	for _, c := range trade.Commodities {
		quotes = append(quotes, f.next(c))
	}
	return quotes
}

func (f *Feed) next(c trade.Commodity) Quote {
	ref := references[c]
	prev := f.last[c]

	move := (f.rng.Float64()*2 - 1) * f.volatility
	price := round(prev*(1+move), 2)
	// Keep the walk within half and double of the reference price.
	price = math.Min(math.Max(price, ref.price/2), ref.price*2)
	f.last[c] = price

	change := round(price-prev, 2)
	return Quote{
		Commodity: c.String(),
		Price:     price,
		Change:    change,
		ChangePct: round(change/prev*100, 2),
		Unit:      ref.unit,
		Timestamp: f.now(),
	}
}

func round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
