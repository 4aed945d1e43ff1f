package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Market   Market   `mapstructure:"market"`
	Client   Client   `mapstructure:"client"`
	Seed     Seed     `mapstructure:"seed"`
}

// Server holds the configuration for the REST API server.
type Server struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Database holds the configuration for the trade store.
type Database struct {
	Driver          string        `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN             string        `mapstructure:"dsn"`
	Echo            bool          `mapstructure:"echo"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Market holds the configuration for the simulated market-data feed.
type Market struct {
	Volatility float64 `mapstructure:"volatility"` // maximum relative move per quote, e.g. 0.02
	Seed       int64   `mapstructure:"seed"`       // 0 seeds from the clock
}

// Client holds the configuration for the trades REST API client.
type Client struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// Seed holds the configuration for the sample-data populator.
type Seed struct {
	Target string `mapstructure:"target"` // "db" or "api"
	Count  int    `mapstructure:"count"`
	Days   int    `mapstructure:"days"`
}

// LoadConfig reads configuration from file, .env and environment variables.
// Flags, when given, take precedence over everything else.
func LoadConfig(path string, flags *pflag.FlagSet) (config Config, err error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if flags != nil {
		if err = v.BindPFlags(flags); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "trades.db")
	v.SetDefault("database.echo", false)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("market.volatility", 0.02)
	v.SetDefault("market.seed", 0)

	v.SetDefault("client.base_url", "http://localhost:8000")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.rate_limit", 20) // requests per second
	v.SetDefault("client.rate_limit_burst", 5)
	v.SetDefault("client.max_retries", 3)

	v.SetDefault("seed.target", "db")
	v.SetDefault("seed.count", 50)
	v.SetDefault("seed.days", 30)
}
