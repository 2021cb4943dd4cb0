package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webpress/internal/codec"
	"webpress/internal/config"
	"webpress/internal/handler"
	"webpress/internal/middleware"
	"webpress/internal/pipeline"
)

// newServerHandler wires the full handler chain for the given config.
// Middlewares in order (outermost first): security headers, rate
// limiting per IP, global concurrency limit, panic recovery, request
// logging.
func newServerHandler(cfg *config.Config) http.Handler {
	pipe := pipeline.New(codec.WebP{})
	h := handler.New(pipe, cfg.TargetSizeKB, cfg.MaxUploadMB, cfg.MaxDimension)

	mux := http.NewServeMux()
	mux.HandleFunc("/convert", h.Convert)
	mux.HandleFunc("/suggest", h.Suggest)
	mux.HandleFunc("/health", h.Health)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.Security(
		middleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst)(
			middleware.ConcurrencyLimit(cfg.MaxConcurrent)(
				middleware.Recovery(
					middleware.Logger(mux),
				),
			),
		),
	)
}

func main() {
	cfg := config.Load()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      newServerHandler(cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting webpress API on %s", server.Addr)
	if cfg.TargetSizeKB > 0 {
		log.Printf("Default size budget: %dKB", cfg.TargetSizeKB)
	}
	log.Printf("Max upload: %dMB, max concurrent: %d, rate limit: %d/sec",
		cfg.MaxUploadMB, cfg.MaxConcurrent, cfg.RateLimitPerSec)

	if err := server.ListenAndServe(); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
