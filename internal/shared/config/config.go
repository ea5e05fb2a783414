package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogLevel        string
	StoreDriver     string
	DatabaseURL     string
	SQLitePath      string
	AutoMigrate     bool
	ReadRateLimit   RateLimit
	WriteRateLimit  RateLimit
	ShutdownTimeout time.Duration
}

// RateLimit is a per-client token bucket. A zero Rate disables limiting.
type RateLimit struct {
	Rate  float64
	Burst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	driver := normalizeStoreDriver(os.Getenv("STORE_DRIVER"), dbURL)

	if env == "production" && driver == StoreMemory {
		log.Printf("a persistent STORE_DRIVER is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StoreDriver:     driver,
		DatabaseURL:     dbURL,
		SQLitePath:      getEnv("SQLITE_PATH", "recommendations.db"),
		AutoMigrate:     getBool("AUTO_MIGRATE", env == "dev" || env == "local"),
		ReadRateLimit: RateLimit{
			Rate:  getFloat("RATE_LIMIT_RPS", 50),
			Burst: getInt("RATE_LIMIT_BURST", 100),
		},
		WriteRateLimit: RateLimit{
			Rate:  getFloat("RATE_LIMIT_WRITE_RPS", 20),
			Burst: getInt("RATE_LIMIT_WRITE_BURST", 40),
		},
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// normalizeStoreDriver falls back to postgres when only DATABASE_URL is set.
func normalizeStoreDriver(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return StorePostgres
	case "sqlite", "sqlite3":
		return StoreSQLite
	case "memory", "mem":
		return StoreMemory
	}
	if strings.TrimSpace(dbURL) != "" {
		return StorePostgres
	}
	return StoreMemory
}
