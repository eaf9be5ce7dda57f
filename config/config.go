package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Port               string
	Env                string
	BackendURL         string
	RequestTimeout     time.Duration
	RedisURL           string
	SessionTTL         time.Duration
	SessionCookie      string
	CookieSecure       bool
	MenuFile           string
	RateLimitPerMinute int
	CloudWatchEnabled  bool
	MetricsNamespace   string
	LogGroup           string
	AllowedOrigins     []string
}

// Load reads configuration from the environment, after loading a .env file if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:3001"),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RedisURL:           getEnv("REDIS_URL", ""),
		SessionTTL:         getDuration("SESSION_TTL", 2*time.Hour),
		SessionCookie:      getEnv("SESSION_COOKIE", "session_id"),
		CookieSecure:       getBool("COOKIE_SECURE", false),
		MenuFile:           getEnv("MENU_FILE", ""),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),
		CloudWatchEnabled:  getBool("CLOUDWATCH_ENABLED", false),
		MetricsNamespace:   getEnv("CLOUDWATCH_NAMESPACE", "TastyEats"),
		LogGroup:           getEnv("CLOUDWATCH_LOG_GROUP", "/tastyeats/storefront"),
		AllowedOrigins:     getList("ALLOWED_ORIGINS"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}

func getInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getList splits a comma-separated value, dropping blanks and trailing slashes.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		v = strings.TrimSuffix(strings.TrimSpace(v), "/")
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
