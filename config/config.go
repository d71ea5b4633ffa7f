package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

// Enabled reports whether a Valkey address was configured.
func (v ValkeyConfig) Enabled() bool {
	return v.Address != ""
}

type Config struct {
	Env            string
	HTTPAddr       string
	LogLevel       slog.Level
	Valkey         ValkeyConfig
	ResultTTL      time.Duration
	MemoryMaxBytes int64
	MaxUploadBytes int64
	AllowedOrigins []string
	StripMarkup    bool
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// Load reads the process environment. Call LoadEnv first to pull in an env file.
func Load() Config {
	ttlSeconds, err := strconv.Atoi(getEnv("RESULT_TTL_SECONDS", "3600"))
	if err != nil || ttlSeconds <= 0 {
		ttlSeconds = 3600 // 1 hour
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	memoryMax, err := strconv.ParseInt(getEnv("MEMORY_STORE_MAX_BYTES", "268435456"), 10, 64)
	if err != nil || memoryMax <= 0 {
		memoryMax = 256 << 20
	}

	return Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: ParseLevel(getEnv("LOG_LEVEL", "info")),
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
		ResultTTL:      time.Duration(ttlSeconds) * time.Second,
		MemoryMaxBytes: memoryMax,
		MaxUploadBytes: maxUpload,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		StripMarkup:    os.Getenv("SENTIMENT_STRIP_MARKUP") == "true",
	}
}

func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
