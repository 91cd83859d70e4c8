package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/infrastructure/ratelimit"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

// RateLimiter limits one route group per client IP. The address is taken
// from the proxy headers first, the socket second.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	scope   string
	logger  logger.Interface
}

// NewRateLimiter returns a limiter allowing perMinute requests per IP. A
// non-positive perMinute disables it.
func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, perMinute int, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  ratelimit.RateLimitConfig{RequestsPerMinute: perMinute},
		scope:   scope,
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil || rl.config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		ip := utils.ClientIP(c.Request.Header)
		if ip == "" {
			ip = c.ClientIP()
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), rl.scope+":"+ip, rl.config)
		if err != nil {
			// Limiter backend down: let traffic through.
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.PlainErrorResponse(c, errors.NewRateLimitedError("Demasiadas solicitudes, inténtalo de nuevo en un minuto."))
			c.Abort()
			return
		}

		c.Next()
	}
}
