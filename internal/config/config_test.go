package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"CONFIG_FILE", "HTTP_ADDR", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "STORE_DRIVER", "SQLITE_PATH",
	"DATABASE_URL", "REDIS_URL", "SEED_FILE", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_TIMEOUT",
	"VALIDATION_STRICTNESS", "RECOMMEND_MAX_CANDIDATES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.StoreDriver != DriverSQLite || c.SQLitePath == "" {
		t.Fatalf("store defaults: %+v", c)
	}
	if c.GeminiModel != "gemini-2.5-flash" || c.GeminiTimeout != 30*time.Second {
		t.Fatalf("gemini defaults: %+v", c)
	}
	if c.ValidationStrictness != "strict" || c.RecommendMaxCandidates != 50 {
		t.Fatalf("domain defaults: %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "20")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GEMINI_TIMEOUT", "5")
	t.Setenv("VALIDATION_STRICTNESS", "lenient")
	t.Setenv("RECOMMEND_MAX_CANDIDATES", "10")
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":9090" || c.ShutdownTimeout != 20*time.Second {
		t.Fatalf("server overrides not applied: %+v", c)
	}
	if c.StoreDriver != DriverMemory || c.GeminiTimeout != 5*time.Second {
		t.Fatalf("driver overrides not applied: %+v", c)
	}
	if c.ValidationStrictness != "lenient" || c.RecommendMaxCandidates != 10 {
		t.Fatalf("domain overrides not applied: %+v", c)
	}
}

func TestLoadInvalidNumbersFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECOMMEND_MAX_CANDIDATES", "x")
	t.Setenv("SHUTDOWN_TIMEOUT", "bad")
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.RecommendMaxCandidates != 50 {
		t.Fatalf("expected fallback to default max candidates")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("expected fallback to default shutdown timeout")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "http_addr: \":7070\"\nstore_driver: redis\nredis_url: localhost:6379\ngemini_timeout: 12s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":6060")
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":6060" {
		t.Fatalf("env must win over file, got %q", c.HTTPAddr)
	}
	if c.StoreDriver != DriverRedis || c.RedisURL != "localhost:6379" {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.GeminiTimeout != 12*time.Second {
		t.Fatalf("file duration not applied: %v", c.GeminiTimeout)
	}
}

func TestLoadRejectsIncompleteDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for postgres without DATABASE_URL")
	}
	t.Setenv("STORE_DRIVER", "cassandra")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
