package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8082",
			AllowedOrigins: []string{"https://getmentor.dev"},
		},
		Database: DatabaseConfig{WorkOffline: true},
		Drafts: DraftsConfig{
			Store:                DraftStoreMemory,
			TTLMinutes:           120,
			ProfileImageMaxBytes: 1024,
		},
		Session: SessionConfig{
			JWTSecret: "secret",
			TTLHours:  24,
		},
	}
}

// chdirTemp isolates Load from any .env file in the working tree
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "release mode",
			config:   &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid offline config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid online config",
			mutate: func(c *Config) {
				c.Database = DatabaseConfig{URL: "postgres://localhost/applications"}
			},
		},
		{
			name: "valid redis store",
			mutate: func(c *Config) {
				c.Drafts.Store = DraftStoreRedis
				c.Redis.Address = "localhost:6379"
			},
		},
		{
			name:     "missing database url",
			mutate:   func(c *Config) { c.Database.WorkOffline = false },
			errorMsg: "DATABASE_URL is required",
		},
		{
			name:     "unknown draft store",
			mutate:   func(c *Config) { c.Drafts.Store = "memcached" },
			errorMsg: "DRAFT_STORE must be one of",
		},
		{
			name: "redis store without address",
			mutate: func(c *Config) {
				c.Drafts.Store = DraftStoreRedis
				c.Redis.Address = ""
			},
			errorMsg: "REDIS_ADDR is required",
		},
		{
			name:     "non-positive draft ttl",
			mutate:   func(c *Config) { c.Drafts.TTLMinutes = 0 },
			errorMsg: "DRAFT_TTL_MINUTES must be positive",
		},
		{
			name:     "non-positive image cap",
			mutate:   func(c *Config) { c.Drafts.ProfileImageMaxBytes = 0 },
			errorMsg: "PROFILE_IMAGE_MAX_BYTES must be positive",
		},
		{
			name:     "missing session secret",
			mutate:   func(c *Config) { c.Session.JWTSecret = "" },
			errorMsg: "SESSION_JWT_SECRET is required",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
		{
			name:     "no allowed origins",
			mutate:   func(c *Config) { c.Server.AllowedOrigins = nil },
			errorMsg: "ALLOWED_CORS_ORIGINS is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"PORT", "GIN_MODE", "APP_ENV", "LOG_LEVEL", "LOG_DIR", "DRAFT_STORE", "DRAFT_TTL_MINUTES", "PROFILE_IMAGE_MAX_BYTES", "ALLOWED_CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_WORK_OFFLINE", "true")
	t.Setenv("SESSION_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"https://getmentor.dev", "https://www.getmentor.dev"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DraftStoreMemory, cfg.Drafts.Store)
	assert.Equal(t, 2*time.Hour, cfg.Drafts.TTL())
	assert.Equal(t, int64(5*1024*1024), cfg.Drafts.ProfileImageMaxBytes)
	assert.False(t, cfg.ObjectStorage.Enabled())
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ALLOWED_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DATABASE_URL", "postgres://localhost/applications")
	t.Setenv("DB_WORK_OFFLINE", "false")
	t.Setenv("DRAFT_STORE", "Redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DRAFT_TTL_MINUTES", "30")
	t.Setenv("SESSION_JWT_SECRET", "secret")
	t.Setenv("OBJECT_STORAGE_ACCESS_KEY_ID", "key")
	t.Setenv("OBJECT_STORAGE_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("OBJECT_STORAGE_BUCKET_NAME", "profiles")
	t.Setenv("APPLICATION_SUBMITTED_TRIGGER_URL", "https://hooks.example/submitted?id=")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DraftStoreRedis, cfg.Drafts.Store)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 30*time.Minute, cfg.Drafts.TTL())
	assert.True(t, cfg.ObjectStorage.Enabled())
	assert.Equal(t, "https://hooks.example/submitted?id=", cfg.EventTriggers.ApplicationSubmittedTriggerURL)
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_WORK_OFFLINE", "true")
	t.Setenv("SESSION_JWT_SECRET", "")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
