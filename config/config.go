package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application settings, loaded from environment variables.
type Config struct {
	Host           string
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
	RateLimitRPS   float64
	CheckInterval  time.Duration
	Scraper        ScraperConfig
}

// ScraperConfig holds the extraction engine settings.
type ScraperConfig struct {
	// Backend selects the page source: "http" (static fetch) or "browser".
	Backend string
	// Timeout bounds each wait-for-selector operation.
	Timeout time.Duration
	// NavigationTimeout bounds page navigation / the whole HTTP request.
	NavigationTimeout time.Duration
	Headless          bool
	// OfflineMode substitutes synthetic data when a site is unreachable.
	OfflineMode bool
}

// Load reads the configuration from the environment, with defaults.
func Load() *Config {
	return &Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		CheckInterval:  time.Duration(getEnvInt("PRICE_CHECK_INTERVAL_HOURS", 4)) * time.Hour,
		Scraper: ScraperConfig{
			Backend:           getEnv("SCRAPER_BACKEND", "http"),
			Timeout:           getEnvMillis("SCRAPER_TIMEOUT_MS", 10*time.Second),
			NavigationTimeout: getEnvMillis("SCRAPER_NAV_TIMEOUT_MS", 30*time.Second),
			Headless:          getEnvBool("SCRAPER_HEADLESS", true),
			OfflineMode:       getEnvBool("SCRAPER_OFFLINE_MODE", false),
		},
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
