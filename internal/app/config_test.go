package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.InventoryAPIURL)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 100*time.Millisecond, cfg.AnalyticsMountDelay)
	assert.Zero(t, cfg.InventoryAPITimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidateRejectsRelativeAPIURL(t *testing.T) {
	cfg := Config{SessionSecret: "s", CSRFSecret: "c", InventoryAPIURL: "/api/v1"}
	require.Error(t, cfg.Validate())

	cfg.InventoryAPIURL = "https://inventory.internal/api/v1"
	require.NoError(t, cfg.Validate())

	cfg.SearchDebounce = -time.Second
	require.Error(t, cfg.Validate())
}
