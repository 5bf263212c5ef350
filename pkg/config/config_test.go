package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GATEHOUSE_SIGNING_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadConfig_Defaults(t *testing.T) {
	withBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, "HS256", cfg.Signing.Algorithm)
	assert.Equal(t, time.Hour, cfg.Signing.TokenTTL)
	assert.Equal(t, "memory", cfg.Principal.Store)
	assert.Equal(t, "users.yaml", cfg.Principal.UsersFile)
	assert.Equal(t, 1024, cfg.Principal.CacheSize)
	assert.Equal(t, time.Minute, cfg.Principal.CacheTTL)
	assert.Equal(t, "rules.yaml", cfg.RulesFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RevocationEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("GATEHOUSE_PORT", "7000")
	t.Setenv("GATEHOUSE_TOKEN_TTL", "30m")
	t.Setenv("GATEHOUSE_CACHE_SIZE", "64")
	t.Setenv("GATEHOUSE_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Signing.TokenTTL)
	assert.Equal(t, 64, cfg.Principal.CacheSize)
	assert.True(t, cfg.RevocationEnabled())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("GATEHOUSE_SIGNING_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RS256RequiresPublicKey(t *testing.T) {
	t.Setenv("GATEHOUSE_SIGNING_ALGORITHM", "RS256")
	t.Setenv("GATEHOUSE_RSA_PUBLIC_KEY_FILE", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("GATEHOUSE_RSA_PUBLIC_KEY_FILE", "/etc/gatehouse/public.pem")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "RS256", cfg.Signing.Algorithm)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", HealthPort: "9090"},
			Signing: SigningConfig{
				Algorithm: "HS256",
				Secret:    "0123456789abcdef0123456789abcdef",
				TokenTTL:  time.Hour,
			},
			Principal: PrincipalConfig{Store: "memory", UsersFile: "users.yaml"},
			RulesFile: "rules.yaml",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "same ports", mutate: func(c *Config) { c.Server.HealthPort = "8080" }, wantErr: true},
		{name: "unsupported algorithm", mutate: func(c *Config) { c.Signing.Algorithm = "ES256" }, wantErr: true},
		{name: "non-positive TTL", mutate: func(c *Config) { c.Signing.TokenTTL = 0 }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.Principal.Store = "dynamo" }, wantErr: true},
		{name: "postgres without URL", mutate: func(c *Config) { c.Principal.Store = "postgres" }, wantErr: true},
		{
			name: "postgres with URL",
			mutate: func(c *Config) {
				c.Principal.Store = "postgres"
				c.Principal.PostgresURL = "postgres://localhost/gatehouse"
			},
			wantErr: false,
		},
		{name: "missing rules file", mutate: func(c *Config) { c.RulesFile = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
