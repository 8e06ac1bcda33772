package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	httpapi "github.com/fairyhunter13/petshop-catalog-service/internal/http"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
	"github.com/fairyhunter13/petshop-catalog-service/internal/recommend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	obs.Logger.Info("service_starting", "store_driver", cfg.StoreDriver)

	strictness, err := catalog.ParseStrictness(cfg.ValidationStrictness)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			obs.Logger.Error("store_close_error", "error", err)
		}
	}()

	if cfg.SeedFile != "" {
		n, err := seedFromFile(ctx, st, cfg.SeedFile, strictness)
		if err != nil {
			return err
		}
		obs.Logger.Info("catalog_seeded", "file", cfg.SeedFile, "inserted", n)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	app := httpapi.NewApp(cfg,
		catalog.NewService(st, strictness),
		recommend.NewService(st, gen, cfg.RecommendMaxCandidates),
	)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GeminiTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_begin")
		ctxSrv, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctxSrv)
	})
	if err := g.Wait(); err != nil {
		obs.Logger.Error("http_server_error", "error", err)
		return err
	}
	obs.Logger.Info("service_stopped")
	return nil
}
