package seed

import (
	"context"
	"fmt"

	"energy-trading-platform/internal/client"
	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/store"
	"energy-trading-platform/internal/trade"
)

// Target is where sample trades are written and counted.
type Target interface {
	Insert(ctx context.Context, t models.Trade) error
	Count(ctx context.Context, f trade.Filter) (int64, error)
}

// StoreTarget writes straight into a trade store and keeps the generated
// timestamps.
type StoreTarget struct {
	Store store.TradeStore
}

func (s StoreTarget) Insert(ctx context.Context, t models.Trade) error {
	_, err := s.Store.Create(ctx, t)
	return err
}

func (s StoreTarget) Count(ctx context.Context, f trade.Filter) (int64, error) {
	_, total, err := s.Store.List(ctx, f, trade.Page{Limit: 1})
	return total, err
}

// APITarget writes through the REST API. The server assigns timestamps.
type APITarget struct {
	Client client.TradesAPI
}

func (a APITarget) Insert(ctx context.Context, t models.Trade) error {
	_, err := a.Client.CreateTrade(ctx, Candidate(t))
	return err
}

func (a APITarget) Count(ctx context.Context, f trade.Filter) (int64, error) {
	list, err := a.Client.ListTrades(ctx, f, trade.Page{Limit: 1})
	if err != nil {
		return 0, err
	}
	return list.Total, nil
}

// Populate inserts trades one at a time and stops at the first failure.
// It returns how many were inserted.
func Populate(ctx context.Context, target Target, trades []models.Trade) (int, error) {
	for i, t := range trades {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := target.Insert(ctx, t); err != nil {
			return i, fmt.Errorf("failed to insert sample trade %d: %w", i+1, err)
		}
	}
	return len(trades), nil
}
