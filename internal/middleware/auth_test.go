package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	token  string
	claims *types.TokenClaims
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errors.New("invalid token")
	}
	return v.claims, nil
}

func authRouter(v TokenValidator) *gin.Engine {
	router := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "role": Role(c)})
	}
	router.GET("/required", AuthMiddleware(v), whoami)
	router.GET("/optional", OptionalAuth(v), whoami)
	router.GET("/chefs", AuthMiddleware(v), RequireRole(models.RoleChef, models.RoleAdmin), whoami)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	v := stubValidator{token: "good", claims: &types.TokenClaims{UserID: userID, Role: models.RoleUser}}
	router := authRouter(v)

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		status int
	}{
		{"bearer token", "/required", "Bearer good", "", http.StatusOK},
		{"cookie token", "/required", "", "good", http.StatusOK},
		{"missing token", "/required", "", "", http.StatusUnauthorized},
		{"malformed header", "/required", "Token good", "", http.StatusUnauthorized},
		{"invalid token", "/required", "Bearer bad", "", http.StatusUnauthorized},
		{"optional anonymous", "/optional", "", "", http.StatusOK},
		{"optional invalid", "/optional", "Bearer bad", "", http.StatusOK},
		{"wrong role", "/chefs", "Bearer good", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestOptionalAuthSetsIdentity(t *testing.T) {
	userID := uuid.New()
	router := authRouter(stubValidator{token: "good", claims: &types.TokenClaims{UserID: userID, Role: models.RoleChef}})

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Contains(t, rr.Body.String(), userID.String())
	assert.Contains(t, rr.Body.String(), `"role":"CHEF"`)

	req = httptest.NewRequest(http.MethodGet, "/chefs", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
