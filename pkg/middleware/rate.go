// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// RateLimit allows max requests per client IP in each fixed window. A
// counter error lets the request through. max <= 0 disables the limiter.
//
//	r.Use(middleware.RateLimit(cache.NewMemoryCounter(), 200, time.Minute))
func RateLimit(counter cache.Counter, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if max <= 0 || counter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := counter.Incr(r.Context(), "rate:"+ctx.ClientIP(r), window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit counter failed",
					"driver", counter.Driver(), "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(max) - n
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(max) {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
