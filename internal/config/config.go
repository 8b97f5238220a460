package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	DBUrl                   string
	JWTSecret               string
	APIBaseURL              string
	APITimeout              time.Duration
	AppEnv                  string
	LogLevel                string
	EsewaRedirectDelay      time.Duration
	AllowedRedirectPrefixes []string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	apiBaseURL := strings.TrimRight(getEnv("API_BASE_URL", ""), "/")
	if apiBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		DBUrl:                   getEnv("DB_URL", ""),
		JWTSecret:               jwtSecret,
		APIBaseURL:              apiBaseURL,
		APITimeout:              getEnvDuration("API_TIMEOUT", 15*time.Second),
		AppEnv:                  normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:                strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		EsewaRedirectDelay:      getEnvDuration("ESEWA_REDIRECT_DELAY", 3*time.Second),
		AllowedRedirectPrefixes: getEnvList("ALLOWED_REDIRECT_PREFIXES"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	items := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
