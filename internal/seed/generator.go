// Package seed generates sample trades and reports what a trade store holds.
package seed

import (
	"math"
	"math/rand"
	"time"

	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/trade"
)

// Traders are the trader ids sample trades are drawn from.
var Traders = []string{"trader_001", "trader_002", "trader_003", "energy_corp", "green_power", "fossil_fuel_ltd"}

// bounds is the price and quantity range of one commodity.
type bounds struct {
	minPrice, maxPrice float64
	minQty, maxQty     float64
}

var ranges = map[trade.Commodity]bounds{
	trade.Electricity: {50, 150, 10, 1000},   // USD/MWh, MWh
	trade.Oil:         {60, 100, 100, 10000}, // USD/barrel, barrels
	trade.Gas:         {2, 8, 1000, 50000},   // USD/MMBtu, MMBtu
	trade.NaturalGas:  {2, 8, 1000, 50000},   // USD/MMBtu, MMBtu
	trade.Coal:        {40, 80, 500, 5000},   // USD/ton, tons
	trade.Renewable:   {30, 120, 50, 2000},   // USD/MWh, MWh
}

// Generator produces random, valid trades spread over the last Days days.
// It is not safe for concurrent use.
type Generator struct {
	rng  *rand.Rand
	days int
	now  func() time.Time
}

// NewGenerator creates a generator. A zero seed seeds from the clock and
// days below one is treated as one.
func NewGenerator(seed int64, days int) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if days < 1 {
		days = 1
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		days: days,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Next returns one trade in canonical form with a back-dated timestamp.
// The id is left zero for the store to assign.
func (g *Generator) Next() models.Trade {
	commodity := trade.Commodities[g.rng.Intn(len(trade.Commodities))]
	b := ranges[commodity]

	now := g.now()
	ts := now.AddDate(0, 0, -g.days).
		Add(time.Duration(g.rng.Intn(g.days+1)) * 24 * time.Hour).
		Add(time.Duration(g.rng.Intn(24)) * time.Hour).
		Add(time.Duration(g.rng.Intn(60)) * time.Minute)
	if ts.After(now) {
		ts = now
	}

	return models.Trade{
		Commodity: commodity.String(),
		Price:     g.uniform(b.minPrice, b.maxPrice),
		Quantity:  g.uniform(b.minQty, b.maxQty),
		Side:      trade.Sides[g.rng.Intn(len(trade.Sides))].String(),
		TraderID:  Traders[g.rng.Intn(len(Traders))],
		Timestamp: ts,
	}
}

// Generate returns n trades.
func (g *Generator) Generate(n int) []models.Trade {
	trades := make([]models.Trade, 0, n)
	for i := 0; i < n; i++ {
		trades = append(trades, g.Next())
	}
	return trades
}

// uniform draws from [lo, hi] rounded to cents.
func (g *Generator) uniform(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}

// Candidate converts a generated trade to the request body accepted by
// POST /trades. The timestamp is dropped; the server assigns it.
func Candidate(t models.Trade) trade.Candidate {
	price, qty := t.Price, t.Quantity
	return trade.Candidate{
		Commodity: t.Commodity,
		Price:     &price,
		Quantity:  &qty,
		Side:      t.Side,
		TraderID:  t.TraderID,
	}
}
