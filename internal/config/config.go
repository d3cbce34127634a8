package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/pkg/validator"
	"github.com/joho/godotenv"
)

// Row store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
	DriverHTTP     = "http"
)

var supportedDrivers = []string{DriverPostgres, DriverSQLite, DriverMongo, DriverHTTP}

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Mongo    MongoConfig
	Upstream UpstreamConfig
	Schedule ScheduleConfig
	Chart    ChartConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// StoreConfig selects the row store backend
type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type SQLiteConfig struct {
	Path string
}

type MongoConfig struct {
	URI      string
	Database string
}

// UpstreamConfig points at another instance's read endpoints
type UpstreamConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
}

// ScheduleConfig holds the polling and rotation periods
type ScheduleConfig struct {
	RowsPollInterval    time.Duration
	HistoryPollInterval time.Duration
	RotationInterval    time.Duration
	ProgressTick        time.Duration
}

// ChartConfig holds the bar chart display policy
type ChartConfig struct {
	HidePseudoSeries bool
	PriorityOrder    bool
}

func Load() (*Config, error) {
	// The .env file is optional; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return FromEnv()
}

// FromEnv reads the configuration from the process environment
func FromEnv() (*Config, error) {
	config := &Config{}
	var err error

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	config.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := getEnvInt32("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt32("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "punctuality"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: maxConns,
		MinConns: minConns,
	}

	config.SQLite = SQLiteConfig{
		Path: getEnv("SQLITE_PATH", "punctuality.db"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "punctuality"),
	}

	// Upstream configuration
	upstreamTimeout, err := getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cbOpenTimeout, err := getEnvDuration("CB_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cbMaxFailures, err := strconv.ParseUint(getEnv("CB_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid CB_MAX_FAILURES: %w", err)
	}

	config.Upstream = UpstreamConfig{
		BaseURL:     getEnv("UPSTREAM_BASE_URL", ""),
		Timeout:     upstreamTimeout,
		MaxFailures: uint32(cbMaxFailures),
		OpenTimeout: cbOpenTimeout,
	}

	// Schedule configuration
	if config.Schedule.RowsPollInterval, err = getEnvDuration("ROWS_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Schedule.HistoryPollInterval, err = getEnvDuration("HISTORY_POLL_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if config.Schedule.RotationInterval, err = getEnvDuration("ROTATION_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Schedule.ProgressTick, err = getEnvDuration("PROGRESS_TICK", 250*time.Millisecond); err != nil {
		return nil, err
	}

	// Chart configuration
	if config.Chart.HidePseudoSeries, err = getEnvBool("CHART_HIDE_PSEUDO_SERIES", false); err != nil {
		return nil, err
	}
	if config.Chart.PriorityOrder, err = getEnvBool("CHART_PRIORITY_ORDER", false); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !validator.IsInSlice(c.Store.Driver, supportedDrivers) {
		return fmt.Errorf("STORE_DRIVER must be one of %s", strings.Join(supportedDrivers, ", "))
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required")
		}
	case DriverHTTP:
		if c.Upstream.BaseURL == "" {
			return fmt.Errorf("UPSTREAM_BASE_URL is required")
		}
	}

	s := c.Schedule
	if s.RowsPollInterval <= 0 || s.HistoryPollInterval <= 0 || s.RotationInterval <= 0 || s.ProgressTick <= 0 {
		return fmt.Errorf("poll, rotation and tick intervals must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt32(key string, fallback int32) (int32, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return int32(n), nil
}
