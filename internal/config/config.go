package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cfbrank"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cfbrank_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Rating model tuning. These are deliberately configuration, not
	// constants: the right values are found by validating against
	// historical seasons.
	RatingKFactor         float64 `envconfig:"RATING_K_FACTOR" default:"20"`
	RatingDivisor         float64 `envconfig:"RATING_DIVISOR" default:"400"`
	RatingHomeFieldBonus  float64 `envconfig:"RATING_HOME_FIELD_BONUS" default:"65"`
	RatingInitial         float64 `envconfig:"RATING_INITIAL" default:"1500"`
	RatingPointsPerMargin float64 `envconfig:"RATING_POINTS_PER_MARGIN" default:"25"`

	// Batch scheduling
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	WeeklyRankingsCron string `envconfig:"WEEKLY_RANKINGS_CRON" default:"0 3 * * 2"`
	RunOnStart         bool   `envconfig:"RUN_ON_START" default:"false"`
	Season             int    `envconfig:"SEASON" default:"0"` // 0 = latest season in database

	// Caching TTL (in seconds)
	CacheTTLRankings int `envconfig:"CACHE_TTL_RANKINGS" default:"600"` // 10 minutes

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.RatingDivisor <= 0 {
		return fmt.Errorf("RATING_DIVISOR must be positive")
	}
	if c.RatingKFactor <= 0 {
		return fmt.Errorf("RATING_K_FACTOR must be positive")
	}
	if c.RatingPointsPerMargin <= 0 {
		return fmt.Errorf("RATING_POINTS_PER_MARGIN must be positive")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
