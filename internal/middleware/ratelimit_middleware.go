package middleware

import (
	"context"
	"net/http"
	"strconv"

	"sea-u/internal/redis"
	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AllowFunc checks one rate limit bucket for a user. The redis.RateLimiter
// methods AllowMessage, AllowLookup and AllowWebSocket have this shape.
type AllowFunc func(ctx context.Context, userID string) (*redis.RateLimitResult, error)

// RateLimitMiddleware limits authenticated requests per user. A nil allow
// func disables limiting, which is the case when Redis is not configured.
// It must run after AuthMiddleware.
func RateLimitMiddleware(allow AllowFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow == nil {
			c.Next()
			return
		}
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := allow(c.Request.Context(), userID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(message, "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// MessageRateLimitMiddleware limits message sends.
func MessageRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimitMiddleware(nil, "")
	}
	return RateLimitMiddleware(limiter.AllowMessage, "message rate limit exceeded")
}

// LookupRateLimitMiddleware limits SEA-U id lookups.
func LookupRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimitMiddleware(nil, "")
	}
	return RateLimitMiddleware(limiter.AllowLookup, "lookup rate limit exceeded")
}

// WebSocketRateLimitMiddleware limits websocket upgrades.
func WebSocketRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimitMiddleware(nil, "")
	}
	return RateLimitMiddleware(limiter.AllowWebSocket, "connection rate limit exceeded")
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
