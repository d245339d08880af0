// Command createuser provisions a dashboard account from ADMIN_EMAIL and
// ADMIN_PASSWORD, for bootstrapping a fresh installation.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/config"
	"github.com/highimexy/Bugly/internal/auth"
	"github.com/highimexy/Bugly/internal/bootstrap"
	"github.com/highimexy/Bugly/internal/tracker/repository"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Store.DatabaseDSN})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := repository.NewRepo(db).Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if err := auth.NewUserRepo(db).Create(ctx, email, password); err != nil {
		log.Fatal().Err(err).Msg("user creation failed (account may already exist)")
	}
	log.Info().Str("email", email).Msg("user created")
}
