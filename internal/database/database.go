package database

import (
	"fmt"
	"strings"
	"time"

	"energy-trading-platform/internal/config"
	"energy-trading-platform/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewDatabase opens the trade store connection. It does not touch the schema;
// call Migrate once at startup before serving requests.
func NewDatabase(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(cfg, log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if isMemorySQLite(cfg) {
		// Every new connection to :memory: is a fresh, empty database.
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemorySQLite(cfg config.Database) bool {
	return (cfg.Driver == "" || cfg.Driver == "sqlite") && strings.Contains(cfg.DSN, ":memory:")
}

// newGormLogger routes gorm's own logging through zap. SQL statements are
// only echoed when the config asks for it.
func newGormLogger(cfg config.Database, log *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.Echo {
		level = gormlogger.Info
	}
	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates the trades table and its indexes. It never drops
// data and is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
