package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env         string
	Port        int
	StoreDriver string
	DBURL       string

	JWTSecret        string
	JWTWebTTLMinutes int
	JWTMobileTTLDays int

	AdminEmail    string
	AdminPassword string
	AdminName     string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	OTLPEndpoint     string
	TraceSampleRatio float64
	CORSOrigins      []string
	LoginRateLimit   int
	WriteRateLimit   int
}

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("APP_ENV", "dev"),
		Port:        getEnvInt("PORT", 8080),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBURL:       getEnv("DATABASE_URL", buildDBURL()),

		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		JWTWebTTLMinutes: getEnvInt("JWT_WEB_TTL_MINUTES", 15),
		JWTMobileTTLDays: getEnvInt("JWT_MOBILE_TTL_DAYS", 30),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 30),

		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_RATIO", 1),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 10),
		WriteRateLimit:   getEnvInt("WRITE_RATE_LIMIT", 60),
	}
}

// Validate rejects configurations that must never reach production.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTWebTTLMinutes <= 0 || c.JWTMobileTTLDays <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.JWTWebTTL() >= c.JWTMobileTTL() {
		return errors.New("web token lifetime must be shorter than mobile token lifetime")
	}
	if c.Env == "prod" && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32) {
		return errors.New("JWT_SECRET must be set to at least 32 characters in prod")
	}
	if c.Env == "prod" && slices.Contains(c.CORSOrigins, "*") {
		return errors.New("CORS_ALLOWED_ORIGINS must list explicit origins in prod")
	}
	return nil
}

func (c Config) JWTWebTTL() time.Duration {
	return time.Duration(c.JWTWebTTLMinutes) * time.Minute
}

func (c Config) JWTMobileTTL() time.Duration {
	return time.Duration(c.JWTMobileTTLDays) * 24 * time.Hour
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "sewasanjal")
	pass := getEnv("DB_PASSWORD", "sewasanjal")
	name := getEnv("DB_NAME", "sewasanjal")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		return f
	}
	return fallback
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
