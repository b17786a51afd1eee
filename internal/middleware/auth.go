package middleware

import (
	"strings"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TokenCookie carries the token for browser clients
	TokenCookie = "accessToken"

	userIDKey = "user_id"
	roleKey   = "role"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFrom(c)
		if err != nil {
			Abort(c, err)
			return
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			Abort(c, apperrors.Unauthorized("invalid or expired token"))
			return
		}

		// Store user info in context
		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := tokenFrom(c); err == nil {
			if claims, err := validator.ValidateToken(token); err == nil {
				c.Set(userIDKey, claims.UserID)
				c.Set(roleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers outside roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		Abort(c, apperrors.Forbidden("insufficient role"))
	}
}

// UserID returns the authenticated user id, or uuid.Nil for anonymous
// callers.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// Role returns the authenticated role, or "" for anonymous callers
func Role(c *gin.Context) models.Role {
	if v, ok := c.Get(roleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

func tokenFrom(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", apperrors.Unauthorized("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", apperrors.Unauthorized("missing authorization header")
}
