package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/sewasanjal/internal/config"
	"github.com/geocoder89/sewasanjal/internal/db"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/geocoder89/sewasanjal/internal/repo/postgres"
)

// migrate applies schema migrations and seeds the admin account without starting the API.
func main() {
	seedDemo := flag.Bool("seed-demo", false, "insert the demo category taxonomy")
	flag.Parse()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.Migrate(ctx, pool, log); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(ctx, postgres.NewUsersRepo(pool, nil), cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	if *seedDemo {
		n, err := db.SeedDemoCategories(ctx, postgres.NewCategoriesRepo(pool, nil))
		if err != nil {
			log.Error("demo seed failed", "err", err)
			os.Exit(1)
		}
		log.Info("demo categories seeded", "created", n)
	}

	log.Info("migrate complete")
}
