package api

import (
	"net/http"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// maxAvatarSize bounds avatar uploads
const maxAvatarSize = 5 << 20

// ProfileHandler serves profiles, favourites and subscriptions
type ProfileHandler struct {
	profileService      service.IProfileService
	subscriptionService service.ISubscriptionService
	validator           middleware.TokenValidator
}

func NewProfileHandler(profileService service.IProfileService, subscriptionService service.ISubscriptionService, validator middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profileService:      profileService,
		subscriptionService: subscriptionService,
		validator:           validator,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")

	me := users.Group("/me")
	me.Use(middleware.AuthMiddleware(h.validator))
	{
		me.GET("", h.GetProfile)
		me.PUT("", h.UpdateProfile)
		me.POST("/avatar", h.ChangeAvatar)
		me.GET("/favourites", h.GetFavourites)
	}

	auth := middleware.AuthMiddleware(h.validator)
	users.POST("/subscribe/:chefId", auth, h.Subscribe)
	users.POST("/unsubscribe/:chefId", auth, h.Unsubscribe)
	users.GET("/:id", h.GetPublicProfile)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile accepts only the whitelisted profile fields
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := bindStrictJSON(c, &req); err != nil {
		middleware.Abort(c, err)
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ChangeAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarSize)
	header, err := c.FormFile("avatar")
	if err != nil {
		middleware.Abort(c, apperrors.Validation("avatar file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		middleware.Abort(c, apperrors.Validation("failed to read avatar"))
		return
	}
	defer file.Close()

	img, err := h.profileService.ChangeAvatar(c.Request.Context(), middleware.UserID(c), &service.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": img})
}

func (h *ProfileHandler) GetFavourites(c *gin.Context) {
	items, err := h.profileService.GetFavourites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RecipeListResponse{Count: len(items), Recipes: items})
}

func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	profile, err := h.profileService.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Subscribe(c *gin.Context) {
	chefID, err := pathUUID(c, "chefId")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if err := h.subscriptionService.Subscribe(c.Request.Context(), middleware.UserID(c), chefID); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed", "chefId": chefID})
}

func (h *ProfileHandler) Unsubscribe(c *gin.Context) {
	chefID, err := pathUUID(c, "chefId")
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), middleware.UserID(c), chefID); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed", "chefId": chefID})
}
