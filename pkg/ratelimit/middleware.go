package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/middleware"
)

// Middleware enforces the limiter on every request. Authenticated users are
// keyed by user ID, anonymous callers by client IP. Redis failures fail open.
func Middleware(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identityType := IdentityAnonymous
		identity := c.ClientIP()
		if userID, err := middleware.GetUserID(c); err == nil {
			identityType = IdentityAuthenticated
			identity = userID.String()
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		rule := limiter.RuleFor(endpoint, identityType)
		result, err := limiter.Allow(c.Request.Context(), endpoint, identity, rule, identityType)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
