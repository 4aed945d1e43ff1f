package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/trade"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// listOrder is the ordering of every listing: newest first, later inserts
// first among equal timestamps.
const listOrder = "timestamp DESC, id DESC"

// TradeStore is the append-only persistence surface for trades.
type TradeStore interface {
	Create(ctx context.Context, t models.Trade) (models.Trade, error)
	List(ctx context.Context, f trade.Filter, p trade.Page) ([]models.Trade, int64, error)
	GetByID(ctx context.Context, id uint) (models.Trade, bool, error)
	ListByCommodity(ctx context.Context, commodity string, limit int) ([]models.Trade, error)
	ListByTrader(ctx context.Context, traderID string, limit int) ([]models.Trade, error)
	Ping(ctx context.Context) error
}

// GormStore implements TradeStore on top of gorm.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// ensure GormStore implements the interface
var _ TradeStore = (*GormStore)(nil)

// NewGormStore creates a store over an already migrated database.
func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	return &GormStore{
		db:     db,
		logger: logger.Named("store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts t and returns the stored record with its id and timestamp.
// A zero timestamp is replaced with the current time. The insert is a single
// row, so on error nothing has been persisted.
func (s *GormStore) Create(ctx context.Context, t models.Trade) (models.Trade, error) {
	if t.ID != 0 {
		return models.Trade{}, &trade.ValidationError{Field: "id", Reason: "is assigned by the store"}
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = s.now()
	} else {
		t.Timestamp = t.Timestamp.UTC()
	}

	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		s.logger.Error("Failed to insert trade", zap.Error(err))
		return models.Trade{}, &trade.StorageError{Op: "create", Err: err}
	}

	s.logger.Debug("Trade stored",
		zap.Uint("trade_id", t.ID),
		zap.String("commodity", t.Commodity),
		zap.String("trader_id", t.TraderID),
	)
	return t, nil
}

// List returns one page of the trades matching f and the number of matches
// across all pages.
func (s *GormStore) List(ctx context.Context, f trade.Filter, p trade.Page) ([]models.Trade, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	f = f.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Trade{}).Scopes(matching(f)).Count(&total).Error; err != nil {
		return nil, 0, &trade.StorageError{Op: "count", Err: err}
	}

	trades := make([]models.Trade, 0)
	err := s.db.WithContext(ctx).
		Scopes(matching(f)).
		Order(listOrder).
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&trades).Error
	if err != nil {
		return nil, 0, &trade.StorageError{Op: "list", Err: err}
	}

	return trades, total, nil
}

// GetByID looks up one trade. A missing id is reported with found == false.
func (s *GormStore) GetByID(ctx context.Context, id uint) (models.Trade, bool, error) {
	var t models.Trade
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Trade{}, false, nil
	}
	if err != nil {
		return models.Trade{}, false, &trade.StorageError{Op: "get", Err: err}
	}
	return t, true, nil
}

// ListByCommodity returns the most recent trades of one commodity.
func (s *GormStore) ListByCommodity(ctx context.Context, commodity string, limit int) ([]models.Trade, error) {
	if commodity == "" {
		return nil, &trade.ValidationError{Field: "commodity", Reason: "is required"}
	}
	if err := trade.CheckLimit(limit, trade.CommodityLimit); err != nil {
		return nil, err
	}
	return s.recent(ctx, "list by commodity", trade.Filter{Commodity: commodity}, limit)
}

// ListByTrader returns the most recent trades of one trader.
func (s *GormStore) ListByTrader(ctx context.Context, traderID string, limit int) ([]models.Trade, error) {
	if traderID == "" {
		return nil, &trade.ValidationError{Field: "trader_id", Reason: "is required"}
	}
	if err := trade.CheckLimit(limit, trade.TraderLimit); err != nil {
		return nil, err
	}
	return s.recent(ctx, "list by trader", trade.Filter{TraderID: traderID}, limit)
}

func (s *GormStore) recent(ctx context.Context, op string, f trade.Filter, limit int) ([]models.Trade, error) {
	trades := make([]models.Trade, 0)
	err := s.db.WithContext(ctx).
		Scopes(matching(f.Normalize())).
		Order(listOrder).
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, &trade.StorageError{Op: op, Err: err}
	}
	return trades, nil
}

// Ping checks that the database answers.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &trade.StorageError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &trade.StorageError{Op: "ping", Err: fmt.Errorf("database unreachable: %w", err)}
	}
	return nil
}

// matching applies the supplied filter fields; empty fields are skipped.
func matching(f trade.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Commodity != "" {
			db = db.Where("commodity = ?", f.Commodity)
		}
		if f.TraderID != "" {
			db = db.Where("trader_id = ?", f.TraderID)
		}
		if f.Side != "" {
			db = db.Where("side = ?", f.Side)
		}
		return db
	}
}
