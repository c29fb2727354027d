package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends
const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Port    string
	BaseURL string

	SheetsAPIKey   string
	SheetsEndpoint string // Overrides the Sheets API base URL (tests, proxies)
	ProductRange   string
	ThemeRange     string

	CatalogMaxAge      time.Duration // A cached catalog older than this is refetched on page load
	CatalogRefreshCron string        // Empty disables scheduled refresh
	CatalogIdleTTL     time.Duration // Sheets nobody visited for this long are dropped; 0 keeps them forever
	ProductsPerPage    int

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	DatabaseURL    string

	ImageCacheDir string
	ChromePath    string
}

// Load reads the configuration from environment variables, applying defaults
func Load() *Config {
	port := strings.TrimPrefix(getEnv("PORT", "8080"), ":")

	cfg := &Config{
		Port:               port,
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		SheetsAPIKey:       getEnv("GOOGLE_SHEETS_API_KEY", ""),
		SheetsEndpoint:     getEnv("SHEETS_ENDPOINT", ""),
		ProductRange:       getEnv("PRODUCT_RANGE", "Sheet1!A:H"),
		ThemeRange:         getEnv("THEME_RANGE", "Sheet2!A:J"),
		CatalogMaxAge:      getDuration("CATALOG_MAX_AGE", 60*time.Second),
		CatalogRefreshCron: getEnv("CATALOG_REFRESH_CRON", ""),
		CatalogIdleTTL:     getDuration("CATALOG_IDLE_TTL", 24*time.Hour),
		ProductsPerPage:    getPositiveInt("PRODUCTS_PER_PAGE", 8),
		SessionBackend:     strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASS", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		ImageCacheDir:      getEnv("IMAGE_CACHE_DIR", "cache/images"),
		ChromePath:         getEnv("CHROME_PATH", ""),
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendPostgres:
	default:
		log.Printf("⚠️  Unknown SESSION_BACKEND '%s', defaulting to %s", cfg.SessionBackend, SessionBackendMemory)
		cfg.SessionBackend = SessionBackendMemory
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("⚠️  Invalid %s '%s', using default %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getPositiveInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s '%s', using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
