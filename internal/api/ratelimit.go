package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
)

// writeMethods are the HTTP methods the rate limiter throttles. Reads stay
// unthrottled; abusive read traffic is a CDN problem, not an app problem.
var writeMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// RateLimitMiddleware creates a middleware that rate limits write requests
// by client IP. Returns 429 Too Many Requests when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !writeMethods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				body, _ := json.Marshal(map[string]string{
					"code":    "RATE_LIMITED",
					"message": "Too many requests. Please try again later.",
				})
				_, _ = w.Write(body)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request. RealIP middleware
// already folds X-Forwarded-For and X-Real-IP into RemoteAddr.
func getClientIP(r *http.Request) string {
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
