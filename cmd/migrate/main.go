package main

import (
	"flag"

	"github.com/bitebot/backend/config"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/logging"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migrations")
	schemaOnly := flag.Bool("schema-only", false, "create tables from the models and skip the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := logging.New(config.GetEnvironment().String())
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Env.String())

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create tables")
	}
	logger.Info().Msg("tables up to date")

	if *schemaOnly {
		return
	}
	if cfg.DBDriver != "postgres" {
		logger.Info().Str("driver", cfg.DBDriver).Msg("SQL migrations are postgres only, skipping")
		return
	}

	sqlDB, err := database.OpenSQL(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open migration connection")
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, *dir, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("all migrations applied")
}
