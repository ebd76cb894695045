package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/config"
	"github.com/geocoder89/sewasanjal/internal/db"
	httpx "github.com/geocoder89/sewasanjal/internal/http"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/geocoder89/sewasanjal/internal/repo/memory"
	"github.com/geocoder89/sewasanjal/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	startCtx, startCancel := config.WithTimeout(30 * time.Second)
	defer startCancel()

	// tracing is opt-in
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(startCtx, observability.TracerConfig{
			ServiceName: "sewasanjal-api",
			Env:         cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRatio: cfg.TraceSampleRatio,
		})
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	stores, closeStores, err := openStores(startCtx, cfg, prom, log)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStores()

	if err := db.EnsureAdminUser(startCtx, stores.Users, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	listingCache, closeCache := openCache(startCtx, cfg, log)
	defer closeCache()

	router := httpx.NewRouter(log, httpx.Deps{
		Config:   cfg,
		Stores:   stores,
		Cache:    listingCache,
		Prom:     prom,
		Gatherer: prometheus.DefaultGatherer,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (httpx.Stores, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()

		n, err := db.SeedDemoCategories(ctx, store.Categories())
		if err != nil {
			return httpx.Stores{}, nil, err
		}
		log.Info("memory store ready", "demo_categories", n)

		return httpx.Stores{
			Users:          store.Users(),
			Categories:     store.Categories(),
			Providers:      store.Providers(),
			Services:       store.Services(),
			Availabilities: store.Availabilities(),
			Ping:           store.Ping,
		}, func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return httpx.Stores{}, nil, err
	}

	if err := db.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return httpx.Stores{}, nil, err
	}

	return httpx.Stores{
		Users:          postgres.NewUsersRepo(pool, prom),
		Categories:     postgres.NewCategoriesRepo(pool, prom),
		Providers:      postgres.NewProvidersRepo(pool, prom),
		Services:       postgres.NewServicesRepo(pool, prom),
		Availabilities: postgres.NewAvailabilitiesRepo(pool, prom),
		Ping:           pool.Ping,
	}, pool.Close, nil
}

// openCache prefers Redis; without REDIS_ADDR, or if it is unreachable, listings are cached in process.
func openCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.CacheTTL()), func() {}
	}

	rdb := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL(),
	})

	if err := rdb.Ping(ctx); err != nil {
		log.Warn("redis unreachable, falling back to memory cache", "addr", cfg.RedisAddr, "err", err)
		_ = rdb.Close()
		return cache.NewMemory(cfg.CacheTTL()), func() {}
	}

	return rdb, func() { _ = rdb.Close() }
}
