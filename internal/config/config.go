package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port            int
	MaxUploadMB     int
	TargetSizeKB    int // advisory output size budget; 0 disables it
	MaxDimension    int // pre-encode downscale cap; 0 keeps original size
	MaxConcurrent   int
	RateLimitPerSec int
	RateLimitBurst  int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:            getEnvInt("PORT", 8080),
		MaxUploadMB:     getEnvInt("MAX_UPLOAD_MB", 25),
		TargetSizeKB:    getEnvInt("TARGET_SIZE_KB", 0),
		MaxDimension:    getEnvInt("MAX_DIMENSION", 0),
		MaxConcurrent:   getEnvInt("MAX_CONCURRENT", 50),
		RateLimitPerSec: getEnvInt("RATE_LIMIT", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultValue
}
