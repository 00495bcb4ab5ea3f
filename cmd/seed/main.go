// Command seed loads the demo property into the configured MySQL database.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"guest_manual/internal/adapters/observability"
	"guest_manual/internal/app"
	"guest_manual/internal/shared"
	mysqlrepo "guest_manual/internal/storage/mysql"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := mysqlrepo.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql open failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	seeded, err := app.Seed(ctx, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	if !seeded {
		log.Info().Msg("properties already present, nothing to do")
		return
	}
	log.Info().Str("slug", app.DemoSlug).Msg("demo property seeded")
}
