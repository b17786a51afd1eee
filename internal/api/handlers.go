package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 1 << 20

// HealthHandler serves liveness and store checks
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/health/db", h.Database)
}

// Health returns the health status of the API
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "BiteBot API is running",
		"version": "v1.0.0",
	})
}

// Database pings the store
func (h *HealthHandler) Database(c *gin.Context) {
	if err := database.HealthCheck(c.Request.Context(), h.db); err != nil {
		middleware.Abort(c, apperrors.Dependency("database ping", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

// bindStrictJSON decodes the body into dst and rejects unknown fields
func bindStrictJSON(c *gin.Context, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err != nil {
		return apperrors.Validation("failed to read request body")
	}
	return decodeStrict(body, dst)
}

func decodeStrict(body []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body: %v", err)
	}
	return nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid %s", name)
	}
	return id, nil
}
