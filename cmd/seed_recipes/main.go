package main

import (
	"context"
	"errors"

	"github.com/bitebot/backend/config"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/logging"
	"github.com/bitebot/backend/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := logging.New(config.GetEnvironment().String())
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Env.String())
	if cfg.Env == config.Production {
		logger.Fatal().Msg("refusing to seed a production database")
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	res, err := seed.Run(context.Background(), db, logger)
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		logger.Info().Msg("demo data already present")
	case err != nil:
		logger.Fatal().Err(err).Msg("seeding failed")
	default:
		logger.Info().Int("users", res.Users).Int("recipes", res.Recipes).Str("password", seed.Password).Msg("seeded demo data")
	}
}
