package api

import (
	"time"

	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies are the services the API serves
type Dependencies struct {
	DB            *gorm.DB
	Auth          *service.AuthService
	Recipes       service.IRecipeService
	Likes         service.ILikeService
	Subscriptions service.ISubscriptionService
	Profiles      service.IProfileService
	Search        service.ISearchToolService

	// Limiters are optional; nil disables the limit
	ToolLimiter   middleware.Limiter
	CreateLimiter middleware.Limiter

	TokenTTL     time.Duration
	SecureCookie bool
	Logger       zerolog.Logger
}

// SetupAPI registers every route under /api/v1
func SetupAPI(router *gin.Engine, deps Dependencies) {
	v1 := router.Group("/api/v1")
	{
		NewHealthHandler(deps.DB).RegisterRoutes(v1)
		NewAuthHandler(deps.Auth, deps.TokenTTL, deps.SecureCookie).RegisterRoutes(v1)
		NewProfileHandler(deps.Profiles, deps.Subscriptions, deps.Auth).RegisterRoutes(v1)
		NewRecipeHandler(deps.Recipes, deps.Likes, deps.Auth, limit(deps.CreateLimiter, deps.Logger)).RegisterRoutes(v1)
		NewToolHandler(deps.Search, deps.Auth, limit(deps.ToolLimiter, deps.Logger)).RegisterRoutes(v1)
	}
}

func limit(l middleware.Limiter, logger zerolog.Logger) gin.HandlerFunc {
	if l == nil {
		return nil
	}
	return middleware.RateLimit(l, logger)
}
