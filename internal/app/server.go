package app

import (
	"time"

	"ingechat/internal/config"
	"ingechat/internal/handler"
	"ingechat/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// devOrigin is the local frontend allowed outside production
const devOrigin = "http://localhost:5173"

// NewRouter builds the HTTP engine with security headers, CORS and
// rate limiting on the chat endpoints. Chat sockets get their own
// conversation from conversations when it is non-nil.
func NewRouter(cfg *config.Config, chat handler.ChatService, conversations handler.ConversationFactory, catalog handler.Catalog, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	corsConfig := cors.Config{
		AllowOrigins:     AllowedOrigins(cfg),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		// same-origin only
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	r.Use(cors.New(corsConfig))

	ipLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	dailyQuota := middleware.NewDailyQuota(cfg.RateLimit.DailyQuota, logger)
	logger.Info("Rate limiting enabled",
		zap.Float64("per_second", cfg.RateLimit.PerSecond),
		zap.Int("burst", cfg.RateLimit.Burst),
		zap.Int64("daily_quota", cfg.RateLimit.DailyQuota),
	)

	h := handler.New(chat, catalog, cfg.Gemini.Timeout+5*time.Second, logger).
		AllowOrigins(AllowedOrigins(cfg)...).
		UseConversations(conversations).
		ChargeQuota(dailyQuota)
	h.Register(r, middleware.RateLimitMiddleware(ipLimiter, dailyQuota, logger))
	return r
}

// AllowedOrigins returns the CORS origins for cfg
func AllowedOrigins(cfg *config.Config) []string {
	origins := []string{}
	if !cfg.IsProduction() {
		origins = append(origins, devOrigin)
	}
	return append(origins, cfg.Server.AllowedOrigins...)
}
