package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"webpress/pkg/metrics"
)

// RateLimiter implements token bucket rate limiting per client IP.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*bucket
	rate   int // tokens per second
	burst  int // max accumulated tokens
	ttl    time.Duration
}

type bucket struct {
	tokens  float64
	lastRef time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per second
// with the given burst.
func NewRateLimiter(rate, burst int) *RateLimiter {
	rl := &RateLimiter{
		limits: make(map[string]*bucket),
		rate:   rate,
		burst:  burst,
		ttl:    5 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request from ip should be admitted.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.limits[ip]
	if !exists {
		rl.limits[ip] = &bucket{tokens: float64(rl.burst) - 1, lastRef: now}
		return true
	}

	b.tokens += now.Sub(b.lastRef).Seconds() * float64(rl.rate)
	b.lastRef = now
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// cleanup drops buckets for IPs that have gone quiet.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, b := range rl.limits {
			if now.Sub(b.lastRef) > rl.ttl {
				delete(rl.limits, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// getIP extracts the client IP, honoring proxy headers.
func getIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i, c := range xff {
			if c == ' ' || c == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// getIPPrefix reduces an IP to its first octet for privacy-preserving
// metric labels.
func getIPPrefix(ip string) string {
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	if idx := strings.Index(ip, "."); idx != -1 {
		return ip[:idx] + ".0.0.0"
	}
	if idx := strings.Index(ip, ":"); idx != -1 {
		return ip[:idx] + ":"
	}
	return "unknown"
}

// RateLimit returns middleware that enforces per-IP rate limiting.
func RateLimit(rate, burst int) func(http.Handler) http.Handler {
	rl := NewRateLimiter(rate, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIP(r)
			if !rl.Allow(ip) {
				log.Printf("Rate limit exceeded for IP: %s", ip)
				metrics.RecordRateLimitExceeded(getIPPrefix(ip))
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
