package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/handlers"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger tags each request with an id and logs it once finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(requestIDHeader, rid)
		c.Set("request_id", rid)

		c.Next()

		zap.S().Infow("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", rid,
		)
	}
}

// RateLimiter allows maxRequests per client IP, method and route within each
// window. Counters live in c.
func RateLimiter(c *cache.Cache, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "rl:" + ctx.ClientIP() + ":" + ctx.Request.Method + ":" + ctx.FullPath()
		count, resetAt := c.Incr(key, window)

		remaining := maxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		ctx.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		ctx.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > maxRequests {
			retry := int(time.Until(resetAt).Seconds()) + 1
			ctx.Header("Retry-After", strconv.Itoa(retry))
			zap.S().Warnw("rate_limited", "key", key, "count", count)
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, handlers.ErrorResponse{Error: "too many requests, try again later"})
			return
		}
		ctx.Next()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter builds an engine with recovery, CORS, request logging and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), cors.New(corsConfig(deps.CORSOrigins)), RequestLogger())
	RegisterRoutes(router, deps)
	return router
}
