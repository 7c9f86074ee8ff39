package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"medlicense/pkg/platform/httputil"
)

// RateLimitOptions configures the per-client token bucket.
type RateLimitOptions struct {
	PerSecond float64
	Burst     int
}

// RateLimit applies a token-bucket limit per client IP. Buckets idle for
// more than an hour are dropped so the map does not grow without bound.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	if opts.PerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.Burst <= 0 {
		opts.Burst = int(opts.PerSecond)
	}

	type bucket struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	const staleAfter = time.Hour

	take := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()

		b, ok := buckets[key]
		if !ok {
			b = &bucket{limiter: rate.NewLimiter(rate.Limit(opts.PerSecond), opts.Burst)}
			buckets[key] = b
		}
		b.lastSeen = time.Now()

		if len(buckets) > 1024 {
			for k, v := range buckets {
				if time.Since(v.lastSeen) > staleAfter {
					delete(buckets, k)
				}
			}
		}

		return b.limiter.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !take(host) {
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Envelope{
					Success: false,
					Error:   "Too many requests",
					Code:    "RATE_LIMITED",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
