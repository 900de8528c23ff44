package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	RateLimit   string
	CORSOrigins []string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Currency
	CanonicalCurrency string
	DisplayCurrency   string
	ExchangeRate      float64

	// Savings tips collaborator
	TipsAPIURL  string
	TipsAPIKey  string
	TipsTimeout time.Duration

	// Product analytics
	PosthogAPIKey   string
	PosthogEndpoint string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		RateLimit:   getEnv("RATE_LIMIT", "100-M"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "saveandplay"),
		DBPassword: getEnv("DB_PASSWORD", "saveandplay"),
		DBName:     getEnv("DB_NAME", "saveandplay"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "saveandplay.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Currency
		CanonicalCurrency: strings.ToUpper(getEnv("CANONICAL_CURRENCY", "USD")),
		DisplayCurrency:   strings.ToUpper(getEnv("DISPLAY_CURRENCY", "DOP")),

		// Tips
		TipsAPIURL: getEnv("TIPS_API_URL", ""),
		TipsAPIKey: getEnv("TIPS_API_KEY", ""),

		// Analytics
		PosthogAPIKey:   getEnv("POSTHOG_API_KEY", ""),
		PosthogEndpoint: getEnv("POSTHOG_ENDPOINT", "https://eu.i.posthog.com"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.TipsTimeout = getDuration("TIPS_TIMEOUT", 10*time.Second)

	rateStr := getEnv("EXCHANGE_RATE", "59")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate <= 0 {
		log.Printf("Warning: invalid EXCHANGE_RATE value '%s', falling back to 59\n", rateStr)
		rate = 59
	}
	config.ExchangeRate = rate

	if config.IsProduction() && os.Getenv("JWT_SECRET") == "" {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
