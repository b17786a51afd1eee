package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitebot/backend/config"
	"github.com/bitebot/backend/internal/middleware"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            config.Test,
		ServerHost:     "localhost",
		ServerPort:     "8080",
		CORSOrigins:    []string{"http://localhost:3000"},
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		StoreTimeout:   time.Second,
		ToolRateLimit:  5,
		ToolRateWindow: time.Minute,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	return New(testConfig(), db, nil, new(testhelpers.MockBlobStore), zerolog.Nop())
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, "localhost:8080", s.http.Addr)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/v1/health",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := serve(s, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitsDisabledWithoutRedis(t *testing.T) {
	deps := dependencies(testConfig(), testhelpers.SetupSQLite(t), nil, new(testhelpers.MockBlobStore), zerolog.Nop())
	assert.Nil(t, deps.ToolLimiter)
	assert.Nil(t, deps.CreateLimiter)
	assert.False(t, deps.SecureCookie)
	assert.Equal(t, time.Hour, deps.TokenTTL)
}
