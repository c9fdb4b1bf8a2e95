package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/finboard")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.AuthProbeTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/finboard")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "10")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.True(t, cfg.AutoMigrate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database",
			cfg:     Config{SessionSecret: testSecret, APITimeout: time.Second, RateLimitRPS: 1, RateLimitBurst: 1},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "short secret",
			cfg:     Config{DatabaseURL: "x", SessionSecret: "short", APITimeout: time.Second, RateLimitRPS: 1, RateLimitBurst: 1},
			wantErr: "at least 32 characters",
		},
		{
			name:    "insecure cookie in production",
			cfg:     Config{Env: "production", DatabaseURL: "x", SessionSecret: testSecret, APITimeout: time.Second, RateLimitRPS: 1, RateLimitBurst: 1},
			wantErr: "COOKIE_SECURE",
		},
		{
			name:    "zero rate limit",
			cfg:     Config{DatabaseURL: "x", SessionSecret: testSecret, APITimeout: time.Second},
			wantErr: "RATE_LIMIT",
		},
		{
			name: "valid",
			cfg:  Config{DatabaseURL: "x", SessionSecret: testSecret, APITimeout: time.Second, RateLimitRPS: 1, RateLimitBurst: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
