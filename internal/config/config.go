package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	Store       string // "postgres" or "memory"
	CORSOrigins string
	// Clerk authentication
	ClerkJWKSURL           string
	ClerkAuthorizedParties []string
	// Upstream completion provider
	UpstreamProvider string // "openai" or "lorem"
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	UpstreamTimeout  time.Duration // 0 disables the timeout
	// Rate limiting (disabled when RedisAddr is empty)
	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int
	// ImageKit upload signing
	ImageKitEndpoint   string
	ImageKitPublicKey  string
	ImageKitPrivateKey string
	// Logging
	LogDir   string
	LogLevel string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            env,
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		TablePrefix:            getTablePrefix(env),
		Store:                  getEnv("STORE", "postgres"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "*"),
		ClerkJWKSURL:           getEnv("CLERK_JWKS_URL", ""),
		ClerkAuthorizedParties: SplitList(getEnv("CLERK_AUTHORIZED_PARTIES", "")),
		UpstreamProvider:       getEnv("UPSTREAM_PROVIDER", "openai"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:          getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:            getEnv("OPENAI_MODEL", DefaultModel),
		UpstreamTimeout:        getDuration("UPSTREAM_TIMEOUT", 0),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RateLimitPerMinute:     getInt("RATE_LIMIT_PER_MINUTE", 30),
		ImageKitEndpoint:       getEnv("IMAGE_KIT_ENDPOINT", ""),
		ImageKitPublicKey:      getEnv("IMAGE_KIT_PUBLIC_KEY", ""),
		ImageKitPrivateKey:     getEnv("IMAGE_KIT_PRIVATE_KEY", ""),
		LogDir:                 getEnv("LOG_DIR", ""),
		LogLevel:               getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
	}
}

// IsDev reports whether debug-only surfaces may be exposed.
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
