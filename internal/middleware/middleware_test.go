package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sea-u/config"
	"sea-u/internal/redis"
	"sea-u/internal/services"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth() *services.AuthService {
	return services.NewAuthService(&config.Config{JWTSecret: "test-secret"})
}

func whoAmI(c *gin.Context) {
	id, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.String(http.StatusInternalServerError, "no user")
		return
	}
	c.String(http.StatusOK, id.String())
}

func TestAuthMiddleware(t *testing.T) {
	auth := newAuth()
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), whoAmI)

	id := uuid.New()
	token, err := auth.IssueAccessToken(id, time.Minute)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.String(), w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIdKey).(string)
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 32)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestErrorHandlerMapsSentinels(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.Wrap(zaptest.NewLogger(t))))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(seau_errors.ErrNotFound) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("db password in here")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRateLimitMiddleware(t *testing.T) {
	auth := newAuth()
	token, err := auth.IssueAccessToken(uuid.New(), time.Minute)
	require.NoError(t, err)

	calls := 0
	allow := func(ctx context.Context, userID string) (*redis.RateLimitResult, error) {
		calls++
		return &redis.RateLimitResult{Allowed: calls <= 1, Limit: 1, ResetIn: 30 * time.Second}, nil
	}

	r := gin.New()
	r.GET("/limited", AuthMiddleware(auth), RateLimitMiddleware(allow, "slow down"), whoAmI)
	r.GET("/open", AuthMiddleware(auth), MessageRateLimitMiddleware(nil), whoAmI)

	do := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w
	}

	first := do("/limited")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do("/limited")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "slow down")
	assert.Equal(t, "30", second.Header().Get("X-RateLimit-Reset"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("/open").Code)
	}
}
