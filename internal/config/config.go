package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/localnerve/ductapedb/internal/types"
)

// ExistencePolicy decides what an annotation existence check returns when
// the lookup itself fails.
type ExistencePolicy string

const (
	// ExistenceFailOpen treats a failed lookup as "present".
	ExistenceFailOpen ExistencePolicy = "open"
	// ExistenceFailClosed propagates the lookup failure.
	ExistenceFailClosed ExistencePolicy = "closed"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port    string
	LogMode string

	// Database configuration
	DBType            string // sqlite, sqlite3, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string // file path for sqlite
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string
	DBBoost           bool

	// Storage behaviour
	ExistencePolicy ExistencePolicy
	WellBatchSize   int
	SignalBatchSize int
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Port:              "3000",
		LogMode:           "development",
		DBType:            "sqlite",
		DBDatabase:        "storage",
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		DBBoost:           true,
		ExistencePolicy:   ExistenceFailOpen,
		WellBatchSize:     50,
		SignalBatchSize:   100,
	}
}

// Load loads configuration from environment variables, reading envFile
// first when it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, types.ErrConfig.New("read %s: %v", envFile, err)
		}
	}

	def := Default()
	cfg := &Config{
		Port:              getEnv("PORT", def.Port),
		LogMode:           getEnv("LOG_MODE", def.LogMode),
		DBType:            strings.ToLower(getEnv("DB_TYPE", def.DBType)),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", ""),
		DBDatabase:        getEnv("DB_DATABASE", def.DBDatabase),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", def.DBConnectionLimit),
		DBLogLevel:        strings.ToLower(getEnv("DB_LOG_LEVEL", def.DBLogLevel)),
		DBBoost:           getEnvAsBool("DB_BOOST", def.DBBoost),
		ExistencePolicy:   ExistencePolicy(strings.ToLower(getEnv("EXISTENCE_POLICY", string(def.ExistencePolicy)))),
		WellBatchSize:     getEnvAsInt("WELL_BATCH_SIZE", def.WellBatchSize),
		SignalBatchSize:   getEnvAsInt("SIGNAL_BATCH_SIZE", def.SignalBatchSize),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite", "sqlite3", "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
	default:
		return types.ErrConfig.New("unsupported database type: %s", c.DBType)
	}
	if c.DBDatabase == "" {
		return types.ErrConfig.New("DB_DATABASE is required")
	}
	switch c.ExistencePolicy {
	case ExistenceFailOpen, ExistenceFailClosed:
	default:
		return types.ErrConfig.New("unknown existence policy: %s", c.ExistencePolicy)
	}
	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return types.ErrConfig.New("unknown database log level: %s", c.DBLogLevel)
	}
	if c.WellBatchSize <= 0 || c.SignalBatchSize <= 0 {
		return types.ErrConfig.New("batch sizes must be positive")
	}
	if c.DBConnectionLimit <= 0 {
		return types.ErrConfig.New("DB_CONNECTION_LIMIT must be positive")
	}
	return nil
}

// IsSQLite reports whether the configured dialect is file backed.
func (c *Config) IsSQLite() bool {
	return c.DBType == "sqlite" || c.DBType == "sqlite3"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
