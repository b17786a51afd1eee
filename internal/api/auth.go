package api

import (
	"net/http"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and password changes
type AuthHandler struct {
	authService  service.IAuthService
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(authService service.IAuthService, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
		users.PUT("/me/password", middleware.AuthMiddleware(h.authService), h.ChangePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.Validation("invalid request body"))
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookie, true)
}
