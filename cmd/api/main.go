package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/config"
	"github.com/highimexy/Bugly/internal/bootstrap"
	"github.com/highimexy/Bugly/internal/tracker/digest"
	"github.com/highimexy/Bugly/internal/tracker/repository"
)

const serviceName = "bugly-api"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Store.DatabaseDSN})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	repo := repository.NewRepo(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Store.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	if redisClient == nil {
		log.Info().Msg("REDIS_ADDR not set, share cache disabled")
	} else {
		defer redisClient.Close()
	}

	nightly := digest.New(repo)
	if err := nightly.Start(); err != nil {
		log.Fatal().Err(err).Msg("digest scheduler failed")
	}
	defer nightly.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		ShareCacheTTL: cfg.Store.ShareCacheTTL,
		DB:            db,
		Redis:         redisClient,
	})

	log.Info().Str("port", cfg.Server.Port).Msg("listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
