package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/pkg/httpext"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/deepgram/danmaku/pkg/ratelimit"
)

// RateLimit rejects clients that exceed cfg within its window. Limiter errors
// let the request through so a Redis outage never takes the stream down.
func RateLimit(limitKey string, limiter ratelimit.Limiter, cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			l := logger.For(logger.MIDDLEWARE)
			ip := ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				l.Error().Err(err).Str("limit", limitKey).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				l.Warn().Str("client_ip", ip).Str("limit", limitKey).Msg("Rate limit exceeded")
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP uses X-Forwarded-For if behind proxy, otherwise the remote address
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
