package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every variable Load reads so tests see the defaults
// regardless of what the host environment exports.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "DATABASE_URL", "ALLOWED_ORIGINS", "RATE_LIMIT_RPS",
		"PRICE_CHECK_INTERVAL_HOURS", "SCRAPER_BACKEND", "SCRAPER_TIMEOUT_MS",
		"SCRAPER_NAV_TIMEOUT_MS", "SCRAPER_HEADLESS", "SCRAPER_OFFLINE_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 4*time.Hour, cfg.CheckInterval)

	assert.Equal(t, "http", cfg.Scraper.Backend)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Scraper.NavigationTimeout)
	assert.True(t, cfg.Scraper.Headless)
	assert.False(t, cfg.Scraper.OfflineMode)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("PRICE_CHECK_INTERVAL_HOURS", "12")
	t.Setenv("SCRAPER_BACKEND", "browser")
	t.Setenv("SCRAPER_TIMEOUT_MS", "2500")
	t.Setenv("SCRAPER_OFFLINE_MODE", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 12*time.Hour, cfg.CheckInterval)
	assert.Equal(t, "browser", cfg.Scraper.Backend)
	assert.Equal(t, 2500*time.Millisecond, cfg.Scraper.Timeout)
	assert.True(t, cfg.Scraper.OfflineMode)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "plenty")
	t.Setenv("PRICE_CHECK_INTERVAL_HOURS", "soon")
	t.Setenv("SCRAPER_TIMEOUT_MS", "-5")

	cfg := Load()

	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 4*time.Hour, cfg.CheckInterval)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
}
