package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	NATSURL     string
	NATSSubject string

	GeminiURL     string
	GeminiModel   string
	GeminiAPIKey  string
	GeminiTimeout time.Duration

	BlobPath string

	MaxUploadBytes int64

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxConcurrent    int
	APIBackpressureWait time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	SeedRules bool
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		NATSURL:     mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.classify"),

		GeminiURL:     mustEnv("GEMINI_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:   mustEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiAPIKey:  mustEnv("GEMINI_API_KEY", ""),
		GeminiTimeout: mustEnvDuration("GEMINI_TIMEOUT", 60*time.Second),

		BlobPath: mustEnv("BLOB_PATH", "./data/blobs"),

		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_BYTES", 20<<20)),

		APIRateLimitRPS:     float64(mustEnvInt("API_RATE_LIMIT_RPS", 10)),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxConcurrent:    mustEnvInt("API_MAX_CONCURRENT", 32),
		APIBackpressureWait: mustEnvDuration("API_BACKPRESSURE_WAIT", 100*time.Millisecond),

		RetryMaxAttempts:    mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoff: mustEnvDuration("RETRY_INITIAL_BACKOFF", 200*time.Millisecond),
		RetryMaxBackoff:     mustEnvDuration("RETRY_MAX_BACKOFF", 2*time.Second),

		SeedRules: mustEnvBool("SEED_RULES", false),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
