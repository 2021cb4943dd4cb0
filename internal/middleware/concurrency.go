package middleware

import (
	"net/http"
	"sync"

	"webpress/pkg/metrics"
)

// ConcurrencyLimiter caps the number of requests processed at once.
// Encodes are CPU-bound, so shedding load beats queueing it.
type ConcurrencyLimiter struct {
	semaphore chan struct{}
	mu        sync.Mutex
	active    int
}

// NewConcurrencyLimiter creates a limiter allowing max concurrent holders.
func NewConcurrencyLimiter(max int) *ConcurrencyLimiter {
	return &ConcurrencyLimiter{semaphore: make(chan struct{}, max)}
}

// Acquire tries to take a slot. Returns false when the limit is reached.
func (cl *ConcurrencyLimiter) Acquire() bool {
	select {
	case cl.semaphore <- struct{}{}:
		cl.mu.Lock()
		cl.active++
		active := cl.active
		cl.mu.Unlock()
		metrics.UpdateConcurrency(active)
		return true
	default:
		return false
	}
}

// Release frees a slot.
func (cl *ConcurrencyLimiter) Release() {
	<-cl.semaphore
	cl.mu.Lock()
	cl.active--
	active := cl.active
	cl.mu.Unlock()
	metrics.UpdateConcurrency(active)
}

// ConcurrencyLimit returns middleware that enforces the limit,
// answering 503 with Retry-After when saturated.
func ConcurrencyLimit(max int) func(http.Handler) http.Handler {
	cl := NewConcurrencyLimiter(max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.Acquire() {
				metrics.RecordConcurrencyLimitExceeded()
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"Service busy, please try again"}`))
				return
			}

			defer cl.Release()
			next.ServeHTTP(w, r)
		})
	}
}
