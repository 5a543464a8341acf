package middleware

import (
	"net/http"
	"time"

	"house-design-backend/internal/config"
	"house-design-backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimit keeps one token bucket per client IP. Idle buckets expire.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	every := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	limiters := cache.New(limiterIdleTTL, limiterIdleTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if v, ok := limiters.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(every, burst)
			if err := limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
				// 并发请求已创建
				if v, ok := limiters.Get(ip); ok {
					limiter = v.(*rate.Limiter)
				}
			}
		}
		// 续期
		limiters.SetDefault(ip, limiter)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{Detail: "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}
