package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds the Redis connection settings for status publishing.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the pdbmap importer configuration, loaded from environment
// variables with defaults.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	Import struct {
		// MappingFile is the path to pdb-uniprot-residue-mapping.txt.
		// Usually supplied as the command line argument instead.
		MappingFile string

		// BatchSize bounds the bulk sink's in-memory buffer; the sink
		// flushes itself when a buffer reaches this size.
		BatchSize int

		// LogInterval is how many input lines pass between progress log
		// entries.
		LogInterval int

		// Status publishing to Redis, for observers of a running import.
		StatusEnabled  bool
		StatusInterval int // lines between status writes
		StatusTTL      int // seconds before a stale status key expires
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "pdbmap")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 0)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 0)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Import.MappingFile = getEnv("MAPPING_FILE", "")
	cfg.Import.BatchSize = getEnvInt("IMPORT_BATCH_SIZE", 1000)
	cfg.Import.LogInterval = getEnvInt("IMPORT_LOG_INTERVAL", 10000)
	cfg.Import.StatusEnabled = getEnv("IMPORT_STATUS_ENABLED", "true") == "true"
	cfg.Import.StatusInterval = getEnvInt("IMPORT_STATUS_INTERVAL", 1000)
	cfg.Import.StatusTTL = getEnvInt("IMPORT_STATUS_TTL", 3600)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
