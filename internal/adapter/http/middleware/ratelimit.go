package middleware

import (
	"net/http"
	"time"

	"quoteflow/internal/observability/logger"
	"quoteflow/internal/ratelimit"
	"quoteflow/pkg"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles by client IP using the injected counter store.
// Scope keeps different endpoints on independent counters.
func RateLimit(store ratelimit.Store, limit int, window time.Duration, scope string) gin.HandlerFunc {
	limited := pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many requests. Please try again later.", http.StatusTooManyRequests)

	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		ok, err := store.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Fail open: throttling is burst protection, not a dependency.
			logger.S().Errorw("rate limit store failed", "scope", scope, "err", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(limited.HTTPStatus, limited.ToHTTPError())
			return
		}
		c.Next()
	}
}
