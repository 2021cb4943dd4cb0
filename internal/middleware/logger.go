package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"webpress/pkg/metrics"
)

// Logger logs HTTP requests and records request metrics.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWrapper{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.status, elapsed)

		// /metrics itself is excluded to avoid self-counting.
		if r.URL.Path != "/metrics" {
			metrics.RecordRequest(r.Method, r.URL.Path, strconv.Itoa(wrapped.status), elapsed.Seconds())
		}
	})
}

// Recovery recovers from handler panics and returns HTTP 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC recovered: %v\n%s", err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"error":"Internal server error"}`)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	status int
}

func (w *responseWrapper) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
