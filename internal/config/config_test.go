package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "development",
		Port:                     "5000",
		DBSSLMode:                "disable",
		DBPassword:               "secure-password",
		DBConnMaxLifetimeMinutes: 30,
		AuthMode:                 AuthModeHMAC,
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		RateLimitMax:             100,
		RateLimitWindowMinutes:   15,
		TracingSamplerRatio:      1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateAuthMode(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"hmac with secret", func(*Config) {}, false},
		{"hmac without secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"oidc without issuer", func(c *Config) { c.AuthMode = AuthModeOIDC }, true},
		{"oidc with issuer", func(c *Config) {
			c.AuthMode = AuthModeOIDC
			c.OIDCIssuer = "https://clerk.example.com"
		}, false},
		{"unknown mode", func(c *Config) { c.AuthMode = "basic" }, true},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"short secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.JWTSecret = "short"
		}, true},
		{"oidc ignores secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.AuthMode = AuthModeOIDC
			c.OIDCIssuer = "https://clerk.example.com"
			c.JWTSecret = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateLimits(t *testing.T) {
	c := validConfig()
	c.RateLimitMax = 0
	assert.Error(t, c.Validate())

	c = validConfig()
	c.TracingSamplerRatio = 1.5
	assert.Error(t, c.Validate())

	c = validConfig()
	c.DBConnMaxLifetimeMinutes = 0
	assert.Error(t, c.Validate())
}

func TestConfig_Durations(t *testing.T) {
	c := validConfig()
	c.SubjectCacheTTLMinutes = 10
	assert.Equal(t, 15*time.Minute, c.RateLimitWindow())
	assert.Equal(t, 10*time.Minute, c.SubjectCacheTTL())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("AUTH_MODE", "HMAC")
	defer viper.Reset()

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, AuthModeHMAC, c.AuthMode)
	assert.Equal(t, 100, c.RateLimitMax)
	assert.Equal(t, 15, c.RateLimitWindowMinutes)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "hybrid", c.DBSchemaMode)
}

func TestLoadConfig_MissingProfileFile(t *testing.T) {
	t.Setenv("APP_ENV", "staging-without-file")
	defer viper.Reset()

	_, err := LoadConfig()
	assert.Error(t, err)
}
