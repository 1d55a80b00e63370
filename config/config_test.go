package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "https://api.pokemontcg.io/v2", cfg.Catalog.BaseURL)
	assert.Equal(t, "EBAY_DE", cfg.Market.Marketplace)
	assert.Equal(t, 25, cfg.Market.ResultLimit)
	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, 4, cfg.Planner.FetchConcurrency)
	assert.Equal(t, "consolidated", cfg.Planner.ShippingPolicy)
	assert.Equal(t, "exclude", cfg.Planner.UnsatisfiablePolicy)
	assert.InDelta(t, 1e-6, cfg.Planner.CostTolerance, 1e-12)
	assert.Equal(t, "purchase-plan", cfg.Export.Prefix)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("SHIPPING_POLICY", "per_offer")
	t.Setenv("UNSATISFIABLE_POLICY", "abort")
	t.Setenv("FETCH_CONCURRENCY", "8")
	t.Setenv("MARKET_RESULT_LIMIT", "50")
	t.Setenv("MONGODB_ENABLED", "true")
	t.Setenv("COST_TOLERANCE", "0.001")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
	assert.Equal(t, "per_offer", cfg.Planner.ShippingPolicy)
	assert.Equal(t, "abort", cfg.Planner.UnsatisfiablePolicy)
	assert.Equal(t, 8, cfg.Planner.FetchConcurrency)
	assert.Equal(t, 50, cfg.Market.ResultLimit)
	assert.True(t, cfg.Database.Enabled)
	assert.InDelta(t, 0.001, cfg.Planner.CostTolerance, 1e-12)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("RATE_WINDOW", "soon")
	t.Setenv("MONGODB_ENABLED", "si")

	cfg := Load()

	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.False(t, cfg.Database.Enabled)
}

func TestParseCORSOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty returns defaults",
			input:    "",
			expected: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		{
			name:  "custom origins appended to defaults",
			input: "https://pokebay.example.com, https://admin.example.com",
			expected: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"https://pokebay.example.com",
				"https://admin.example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCORSOrigins(tt.input))
		})
	}
}
