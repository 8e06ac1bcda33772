// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds configuration knobs for the HTTP server, the product store and
// the generative model client.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`

	StoreDriver string `yaml:"store_driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	SeedFile    string `yaml:"seed_file"`

	GeminiAPIKey  string        `yaml:"gemini_api_key"`
	GeminiModel   string        `yaml:"gemini_model"`
	GeminiTimeout time.Duration `yaml:"gemini_timeout"`

	ValidationStrictness   string `yaml:"validation_strictness"`
	RecommendMaxCandidates int    `yaml:"recommend_max_candidates"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		HTTPAddr:               ":8080",
		ShutdownTimeout:        15 * time.Second,
		LogLevel:               "info",
		StoreDriver:            DriverSQLite,
		SQLitePath:             "data/catalog.db",
		GeminiModel:            "gemini-2.5-flash",
		GeminiTimeout:          30 * time.Second,
		ValidationStrictness:   "strict",
		RecommendMaxCandidates: 50,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, def time.Duration) time.Duration {
	sec := atoienv(key, -1)
	if sec < 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	c.ShutdownTimeout = durenvs("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.StoreDriver = getenv("STORE_DRIVER", c.StoreDriver)
	c.SQLitePath = getenv("SQLITE_PATH", c.SQLitePath)
	c.DatabaseURL = getenv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getenv("REDIS_URL", c.RedisURL)
	c.SeedFile = getenv("SEED_FILE", c.SeedFile)
	c.GeminiAPIKey = getenv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getenv("GEMINI_MODEL", c.GeminiModel)
	c.GeminiTimeout = durenvs("GEMINI_TIMEOUT", c.GeminiTimeout)
	c.ValidationStrictness = getenv("VALIDATION_STRICTNESS", c.ValidationStrictness)
	c.RecommendMaxCandidates = atoienv("RECOMMEND_MAX_CANDIDATES", c.RecommendMaxCandidates)
}

// Validate checks that the selected store driver has what it needs.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("store driver %s requires SQLITE_PATH", c.StoreDriver)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store driver %s requires DATABASE_URL", c.StoreDriver)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("store driver %s requires REDIS_URL", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}
