package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitebot/backend/config"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/logging"
	"github.com/bitebot/backend/internal/server"
	"github.com/bitebot/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := logging.New(config.GetEnvironment().String())
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Env.String())
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()
	s3Client, err := config.NewS3Client(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure blob storage")
	}
	blobs := storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.PublicBaseURL(), storage.DefaultBreakerConfig, logger)

	// Rate limits fail open, so a missing redis only disables them
	var rdb *redis.Client
	if client, err := database.NewRedisClient(cfg, logger); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, rate limits disabled")
	} else {
		rdb = client
		defer rdb.Close()
	}

	srv := server.New(cfg, db, rdb, blobs, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("server stopped")
}
