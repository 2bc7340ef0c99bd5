package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SecurityConfig represents security configuration
type SecurityConfig struct {
	EnableRateLimit       bool
	RateLimitPerSecond    float64
	RateLimitBurst        int
	EnableCORS            bool
	AllowedOrigins        []string
	EnableSecurityHeaders bool
	MaxRequestSize        int64
	EnableRequestID       bool
}

type Config struct {
	Port          int
	FeedURL       string
	DataDir       string
	FetchTimeout  time.Duration
	ReadFetchRows int
	DedupPageSize int
	Timezone      string
	CacheTTL      time.Duration
	PollInterval  time.Duration
	EnablePoller  bool
	EnableSwagger bool
	Security      SecurityConfig
}

func Load() *Config {
	// Pick up a local .env if one exists; real environment wins
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env file")
	}

	return &Config{
		Port:          getEnvAsInt("PORT", 8080),
		FeedURL:       getEnv("FEED_URL", "https://pulse.zerodha.com/feed.php"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		FetchTimeout:  getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		ReadFetchRows: getEnvAsInt("READ_FETCH_ROWS", 1000),
		DedupPageSize: getEnvAsInt("DEDUP_PAGE_SIZE", 1000),
		Timezone:      getEnv("TIMEZONE", "Asia/Kolkata"),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", time.Minute),
		PollInterval:  getEnvAsDuration("POLL_INTERVAL", 15*time.Minute),
		EnablePoller:  getEnvAsBool("ENABLE_POLLER", false),
		EnableSwagger: getEnvAsBool("ENABLE_SWAGGER", true),
		Security:      loadSecurityConfig(),
	}
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableRateLimit:       getEnvAsBool("ENABLE_RATE_LIMIT", true),
		RateLimitPerSecond:    getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10.0),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),
		EnableCORS:            getEnvAsBool("ENABLE_CORS", true),
		AllowedOrigins:        getEnvAsStringSlice("ALLOWED_ORIGINS", []string{"*"}),
		EnableSecurityHeaders: getEnvAsBool("ENABLE_SECURITY_HEADERS", true),
		MaxRequestSize:        getEnvAsInt64("MAX_REQUEST_SIZE", 10<<20), // 10MB
		EnableRequestID:       getEnvAsBool("ENABLE_REQUEST_ID", true),
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: invalid timezone %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key string, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getEnvAsStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return defaultVal
}
