package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CATALOG_HTTP_TIMEOUT", "")
	t.Setenv("CATALOG_SEARCH_DELAY_MS", "")

	cfg := LoadConfig()
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDelay)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CATALOG_API_BASE", "https://api.example.com")
	t.Setenv("CATALOG_HTTP_TIMEOUT", "5")
	t.Setenv("CATALOG_SEARCH_DELAY_MS", "150")
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()
	assert.Equal(t, "https://api.example.com", cfg.APIBase)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDelay)
	assert.Equal(t, "9090", cfg.Port)
}

func TestGetDurationSyntax(t *testing.T) {
	t.Setenv("X_TIMEOUT", "1500ms")
	assert.Equal(t, 1500*time.Millisecond, getDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "garbage")
	assert.Equal(t, time.Second, getDuration("X_TIMEOUT", time.Second))
}

func TestCORSOriginsList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://localhost:3000, ,https://app.example.com ")
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, LoadConfig().CORSOrigins)

	t.Setenv("CORS_ORIGINS", "")
	assert.Nil(t, LoadConfig().CORSOrigins)
}
