package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"reqmarket/internal/infrastructure/ratelimit"
	"reqmarket/pkg/errors"
	"reqmarket/pkg/logger"
)

type RateLimitMiddleware struct {
	limiter  *ratelimit.RateLimiter
	onReject func(action string)
}

// NewRateLimitMiddleware wraps limiter. onReject, when set, is called for
// every rejected request.
func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter, onReject func(action string)) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:  limiter,
		onReject: onReject,
	}
}

// Limit throttles action per caller: the authenticated identity when there
// is one, the client IP otherwise.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil || m.limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			key := UID(c)
			if key == "" {
				key = c.RealIP()
			}

			ok, wait := m.limiter.Allow(key, action, time.Now())
			if !ok {
				logger.Warn("Rate limit exceeded: action=%s, caller=%s", action, key)
				if m.onReject != nil {
					m.onReject(action)
				}
				if wait > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				}
				return errors.TooManyRequests("Rate limit exceeded")
			}
			return next(c)
		}
	}
}
