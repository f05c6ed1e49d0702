// README: Token-bucket limiter for expensive endpoints.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimit shares one limiter across all callers of the route. A nil
// limiter lets every request through.
func RateLimit(limiter *rate.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			log.Warn("rate limit exceeded", zap.String("path", c.FullPath()), zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
