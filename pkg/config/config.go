// Package config loads Gatehouse configuration from environment variables.
// The signing key, token TTL, and route-rule table are load-time settings;
// no runtime mutation API exists for any of them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Signing   SigningConfig
	Principal PrincipalConfig
	RulesFile string
	LogLevel  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes and Prometheus)
	HealthPort string
}

// SigningConfig holds token signing configuration
type SigningConfig struct {
	Algorithm string
	// Secret is the HMAC secret. Required for the HS* family; must not be
	// empty or a well-known placeholder (enforced by the key provider).
	Secret string
	// PEM key files for RS256.
	RSAPrivateKeyFile string
	RSAPublicKeyFile  string
	TokenTTL          time.Duration
}

// PrincipalConfig holds user-store configuration
type PrincipalConfig struct {
	// Store selects the principal store backend: "memory" or "postgres".
	Store string
	// UsersFile seeds the memory store.
	UsersFile   string
	PostgresURL string

	// RedisURL, when set, enables the token revocation denylist.
	RedisURL string

	// Principal cache. Size 0 disables caching; the TTL is clamped to the
	// token TTL at wiring time.
	CacheSize int
	CacheTTL  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("GATEHOUSE_HOST", "0.0.0.0"),
			Port:            getEnv("GATEHOUSE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("GATEHOUSE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("GATEHOUSE_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("GATEHOUSE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("GATEHOUSE_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("GATEHOUSE_HEALTH_PORT", "9090"),
		},
		Signing: SigningConfig{
			Algorithm:         getEnv("GATEHOUSE_SIGNING_ALGORITHM", "HS256"),
			Secret:            getEnv("GATEHOUSE_SIGNING_SECRET", ""),
			RSAPrivateKeyFile: getEnv("GATEHOUSE_RSA_PRIVATE_KEY_FILE", ""),
			RSAPublicKeyFile:  getEnv("GATEHOUSE_RSA_PUBLIC_KEY_FILE", ""),
			TokenTTL:          getEnvDuration("GATEHOUSE_TOKEN_TTL", time.Hour),
		},
		Principal: PrincipalConfig{
			Store:       getEnv("GATEHOUSE_STORE", "memory"),
			UsersFile:   getEnv("GATEHOUSE_USERS_FILE", "users.yaml"),
			PostgresURL: getEnv("GATEHOUSE_POSTGRES_URL", ""),
			RedisURL:    getEnv("GATEHOUSE_REDIS_URL", ""),
			CacheSize:   getEnvInt("GATEHOUSE_CACHE_SIZE", 1024),
			CacheTTL:    getEnvDuration("GATEHOUSE_CACHE_TTL", time.Minute),
		},
		RulesFile: getEnv("GATEHOUSE_RULES_FILE", "rules.yaml"),
		LogLevel:  getEnv("GATEHOUSE_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Signing.Algorithm {
	case "HS256", "HS384", "HS512":
		if c.Signing.Secret == "" {
			return fmt.Errorf("GATEHOUSE_SIGNING_SECRET is required for %s", c.Signing.Algorithm)
		}
	case "RS256":
		if c.Signing.RSAPublicKeyFile == "" {
			return fmt.Errorf("GATEHOUSE_RSA_PUBLIC_KEY_FILE is required for RS256")
		}
	default:
		return fmt.Errorf("unsupported signing algorithm: %s", c.Signing.Algorithm)
	}

	if c.Signing.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %v", c.Signing.TokenTTL)
	}

	switch c.Principal.Store {
	case "memory":
		if c.Principal.UsersFile == "" {
			return fmt.Errorf("GATEHOUSE_USERS_FILE is required for the memory store")
		}
	case "postgres":
		if c.Principal.PostgresURL == "" {
			return fmt.Errorf("GATEHOUSE_POSTGRES_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("invalid principal store: %s (must be memory or postgres)", c.Principal.Store)
	}

	if c.RulesFile == "" {
		return fmt.Errorf("rules file is required")
	}

	return nil
}

// RevocationEnabled reports whether the optional denylist is configured.
func (c *Config) RevocationEnabled() bool {
	return c.Principal.RedisURL != ""
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
