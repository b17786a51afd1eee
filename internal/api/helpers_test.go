package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	blobs  *testhelpers.MockBlobStore
}

func setupTestRouter(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	blobs := new(testhelpers.MockBlobStore)
	logger := zerolog.Nop()
	auth := service.NewAuthService(db, "test-secret", time.Hour, 0)

	deps := Dependencies{
		DB:            db,
		Auth:          auth,
		Recipes:       service.NewRecipeService(db, blobs, logger, 0),
		Likes:         service.NewLikeService(db, logger, 0),
		Subscriptions: service.NewSubscriptionService(db, logger, 0),
		Profiles:      service.NewProfileService(db, blobs, logger, 0),
		Search:        service.NewSearchToolService(db, logger, 0),
		TokenTTL:      time.Hour,
		Logger:        logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	SetupAPI(router, deps)
	return &testEnv{router: router, db: db, auth: auth, blobs: blobs}
}

// userWithToken creates a user with the given role and a token for it
func (e *testEnv) userWithToken(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, e.db, role)
	token, err := e.auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

// PerformRequest sends body as JSON and returns the recorded response
func (e *testEnv) PerformRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

