package main

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/config"
	"github.com/fairyhunter13/petshop-catalog-service/internal/llm"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
	"github.com/fairyhunter13/petshop-catalog-service/internal/recommend"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store/redisstore"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store/sqlstore"
)

// openStore builds the catalog store selected by cfg.StoreDriver. The
// returned close func is never nil.
func openStore(ctx context.Context, cfg config.Config) (catalog.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemory(), noop, nil
	case config.DriverSQLite:
		st, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case config.DriverPostgres:
		st, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		st := redisstore.New(client)
		return st, st.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// newGenerator returns the Gemini client, or a disabled generator when no
// API key is configured so the catalog still serves.
func newGenerator(ctx context.Context, cfg config.Config) (recommend.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		obs.Logger.Warn("generator_disabled", "reason", "GEMINI_API_KEY not set")
		return llm.Disabled{}, nil
	}
	g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		return nil, err
	}
	obs.Logger.Info("generator_ready", "model", g.Name())
	return g, nil
}

func seedFromFile(ctx context.Context, st catalog.Store, path string, strictness catalog.Strictness) (int, error) {
	products, err := store.LoadSeedFile(path, strictness)
	if err != nil {
		return 0, err
	}
	return store.Seed(ctx, st, products)
}
