package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	rateLimitedMessage   = "Has enviado demasiados mensajes. Espera un momento e inténtalo de nuevo."
	quotaExceededMessage = "IngeChat alcanzó el límite diario de consultas. Vuelve mañana."
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, exists := l.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(l.rate, l.burst)
		l.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// DailyQuota manages global daily request quota
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64, logger *zap.Logger) *DailyQuota {
	return &DailyQuota{
		limit:   limit,
		resetAt: nextMidnightPT(),
		logger:  logger,
	}
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Check if we need to reset
	if time.Now().After(q.resetAt) {
		q.logger.Info("Daily quota reset", zap.Int64("previous_count", q.count))
		q.count = 0
		q.resetAt = nextMidnightPT()
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// ResetIn returns the time left until the quota resets
func (q *DailyQuota) ResetIn() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return time.Until(q.resetAt)
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// nextMidnightPT returns the next midnight in Pacific Time (Gemini API reset time)
func nextMidnightPT() time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		// Fallback to UTC if timezone not found
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}

// RateLimitMiddleware creates a Gin middleware for rate limiting.
// The per-IP limiter is checked first so throttled clients do not spend the daily quota.
// Rejections answer 429 with Retry-After and a chat-compatible body.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !ipLimiter.GetLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			reject(c, time.Second, rateLimitedMessage, "RATE_LIMITED")
			return
		}

		if !quota.Allow() {
			logger.Warn("Daily quota exceeded", zap.Int64("count", quota.Count()))
			reject(c, quota.ResetIn(), quotaExceededMessage, "DAILY_QUOTA_EXCEEDED")
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, retryAfter time.Duration, message, code string) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"response":    message,
		"suggestions": []string{},
		"code":        code,
		"retryAfter":  seconds,
	})
}
