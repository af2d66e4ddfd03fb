package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_PerIP(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Every(time.Hour), 1)
	r := newRouter(RateLimitMiddleware(limiter, NewDailyQuota(100, zap.NewNop()), zap.NewNop()))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1234", nil).Code)

	w := get(r, "10.0.0.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.2:1234", nil).Code, "other clients are unaffected")
}

func TestRateLimitMiddleware_DailyQuota(t *testing.T) {
	quota := NewDailyQuota(2, zap.NewNop())
	limiter := NewIPRateLimiter(rate.Inf, 1)
	r := newRouter(RateLimitMiddleware(limiter, quota, zap.NewNop()))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.2:1", nil).Code)

	w := get(r, "10.0.0.3:1", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "DAILY_QUOTA_EXCEEDED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, int64(0), quota.Remaining())
	assert.Equal(t, int64(2), quota.Count())
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())

	w := get(r, "10.0.0.1:1", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = get(r, "10.0.0.1:1", map[string]string{"X-Forwarded-Proto": "https"})
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
