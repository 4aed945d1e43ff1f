package seed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"energy-trading-platform/internal/client"
	"energy-trading-platform/internal/config"
	"energy-trading-platform/internal/database"
	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/store"
	"energy-trading-platform/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStoreTarget(t *testing.T) StoreTarget {
	db, err := database.NewDatabase(config.Database{Driver: "sqlite", DSN: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return StoreTarget{Store: store.NewGormStore(db, zap.NewNop())}
}

func TestGenerator_ProducesValidTrades(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(42, 30)
	g.now = func() time.Time { return now }

	for _, tr := range g.Generate(500) {
		normalized, err := trade.ValidateAndNormalize(Candidate(tr))
		require.NoError(t, err, "generated trade %+v", tr)
		assert.Equal(t, tr.Commodity, normalized.Commodity)

		b := ranges[trade.Commodity(tr.Commodity)]
		assert.GreaterOrEqual(t, tr.Price, b.minPrice)
		assert.LessOrEqual(t, tr.Price, b.maxPrice)
		assert.GreaterOrEqual(t, tr.Quantity, b.minQty)
		assert.LessOrEqual(t, tr.Quantity, b.maxQty)
		assert.Contains(t, Traders, tr.TraderID)

		assert.False(t, tr.Timestamp.After(now))
		assert.False(t, tr.Timestamp.Before(now.AddDate(0, 0, -30)))
		assert.Zero(t, tr.ID)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	a, b := NewGenerator(7, 30), NewGenerator(7, 30)
	a.now = func() time.Time { return now }
	b.now = func() time.Time { return now }

	assert.Equal(t, a.Generate(20), b.Generate(20))
}

func TestCandidate_DropsTimestamp(t *testing.T) {
	c := Candidate(models.Trade{Commodity: "oil", Price: 80, Quantity: 5, Side: "sell", TraderID: "energy_corp", Timestamp: time.Now()})
	require.NotNil(t, c.Price)
	require.NotNil(t, c.Quantity)
	assert.Equal(t, 80.0, *c.Price)
	assert.Equal(t, 5.0, *c.Quantity)
	assert.Equal(t, "energy_corp", c.TraderID)
}

func TestPopulateAndSummarize_Store(t *testing.T) {
	target := setupStoreTarget(t)
	ctx := context.Background()

	trades := []models.Trade{
		{Commodity: "oil", Price: 80, Quantity: 10, Side: "buy", TraderID: "trader_001"},
		{Commodity: "oil", Price: 81, Quantity: 10, Side: "sell", TraderID: "trader_002"},
		{Commodity: "coal", Price: 60, Quantity: 10, Side: "buy", TraderID: "trader_001"},
	}
	n, err := Populate(ctx, target, trades)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	s, err := Summarize(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Total)
	assert.Equal(t, []Row{{"oil", 2}, {"coal", 1}}, s.ByCommodity)
	assert.Equal(t, []Row{{"buy", 2}, {"sell", 1}}, s.BySide)
	assert.Equal(t, []Row{{"trader_001", 2}, {"trader_002", 1}}, s.ByTrader)

	var buf bytes.Buffer
	Render(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "oil")
	assert.Contains(t, out, "coal")
	assert.Contains(t, out, "trader_002")
	assert.Contains(t, out, "trades by side")
	assert.NotContains(t, out, "renewable")
}

func TestPopulate_KeepsBackdatedTimestamps(t *testing.T) {
	target := setupStoreTarget(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)

	_, err := Populate(ctx, target, []models.Trade{{Commodity: "gas", Price: 4, Quantity: 1000, Side: "buy", TraderID: "green_power", Timestamp: ts}})
	require.NoError(t, err)

	got, found, err := target.Store.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Timestamp.Equal(ts))
}

// MockTradesAPI is a mock implementation of client.TradesAPI.
type MockTradesAPI struct {
	mock.Mock
}

var _ client.TradesAPI = (*MockTradesAPI)(nil)

func (m *MockTradesAPI) Health(ctx context.Context) (*client.HealthStatus, error) {
	args := m.Called(ctx)
	if h := args.Get(0); h != nil {
		return h.(*client.HealthStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTradesAPI) CreateTrade(ctx context.Context, c trade.Candidate) (*models.Trade, error) {
	args := m.Called(ctx, c)
	if t := args.Get(0); t != nil {
		return t.(*models.Trade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTradesAPI) ListTrades(ctx context.Context, f trade.Filter, p trade.Page) (*client.TradeList, error) {
	args := m.Called(ctx, f, p)
	if l := args.Get(0); l != nil {
		return l.(*client.TradeList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTradesAPI) GetTrade(ctx context.Context, id uint) (*models.Trade, bool, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.Trade), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func TestPopulate_APIStopsAtFirstFailure(t *testing.T) {
	api := new(MockTradesAPI)
	ctx := context.Background()
	trades := NewGenerator(1, 30).Generate(3)

	api.On("CreateTrade", ctx, Candidate(trades[0])).Return(&models.Trade{ID: 1}, nil).Once()
	api.On("CreateTrade", ctx, Candidate(trades[1])).Return(nil, errors.New("connection refused")).Once()

	n, err := Populate(ctx, APITarget{Client: api}, trades)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample trade 2")
	assert.Equal(t, 1, n)
	api.AssertExpectations(t)
	api.AssertNumberOfCalls(t, "CreateTrade", 2)
}

func TestAPITarget_Count(t *testing.T) {
	api := new(MockTradesAPI)
	ctx := context.Background()

	api.On("ListTrades", ctx, trade.Filter{Side: "sell"}, trade.Page{Limit: 1}).Return(&client.TradeList{Total: 12}, nil)
	api.On("ListTrades", ctx, trade.Filter{Side: "buy"}, trade.Page{Limit: 1}).Return(nil, errors.New("boom"))

	target := APITarget{Client: api}
	n, err := target.Count(ctx, trade.Filter{Side: "sell"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = target.Count(ctx, trade.Filter{Side: "buy"})
	assert.Error(t, err)
}

func TestPopulate_CancelledContext(t *testing.T) {
	target := setupStoreTarget(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Populate(ctx, target, NewGenerator(1, 30).Generate(2))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
