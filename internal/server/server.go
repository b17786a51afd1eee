package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bitebot/backend/config"
	"github.com/bitebot/backend/internal/api"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain
const ShutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger zerolog.Logger
}

// New wires the services over db and blobs and builds the router. rdb may be
// nil, in which case rate limits are disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, blobs storage.BlobStore, logger zerolog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSOrigins),
		metrics.Middleware(),
		middleware.ErrorHandler(logger),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api.SetupAPI(router, dependencies(cfg, db, rdb, blobs, logger))

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func dependencies(cfg *config.Config, db *gorm.DB, rdb *redis.Client, blobs storage.BlobStore, logger zerolog.Logger) api.Dependencies {
	timeout := cfg.StoreTimeout
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, timeout)

	deps := api.Dependencies{
		DB:            db,
		Auth:          auth,
		Recipes:       service.NewRecipeService(db, blobs, logger, timeout),
		Likes:         service.NewLikeService(db, logger, timeout),
		Subscriptions: service.NewSubscriptionService(db, logger, timeout),
		Profiles:      service.NewProfileService(db, blobs, logger, timeout),
		Search:        service.NewSearchToolService(db, logger, timeout),
		TokenTTL:      auth.TokenTTL(),
		SecureCookie:  cfg.Env.SecureCookies(),
		Logger:        logger,
	}
	// Limiters stay nil interfaces without redis
	if rdb != nil {
		deps.ToolLimiter = middleware.NewSearchToolRateLimiter(rdb, cfg.ToolRateLimit, cfg.ToolRateWindow)
		deps.CreateLimiter = middleware.NewRecipeCreationRateLimiter(rdb)
	}
	return deps
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the server is shut down. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting at most ShutdownTimeout
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
