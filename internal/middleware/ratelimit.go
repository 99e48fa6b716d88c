package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitWindow = 2 * time.Minute
	rateLimitMax    = 25
	rateLimitPrefix = "ratelimit:"
)

// RateLimit enforces a fixed-window per-IP request budget in Redis. When
// Redis is unreachable requests are allowed through: losing rate limiting
// must not take the API down with it.
func RateLimit(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitPrefix + clientIP(r)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, rateLimitWindow)
			}

			if count > rateLimitMax {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimitMax))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rateLimitMax-int(count)))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP trusts RemoteAddr; the chi RealIP middleware runs earlier in the
// chain and already resolved forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
