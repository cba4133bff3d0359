package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func baseConfig(env string) *Config {
	return &Config{
		Env:               env,
		Port:              "8290",
		JWTSecret:         "secure-secret-at-least-32-chars-long!!",
		JWTTTLHours:       24,
		DBPassword:        "secure-password",
		DBSSLMode:         "require",
		ResetTokenTTLMins: 15,
		SMTPHost:          "smtp.example.com",
		UploadProvider:    "s3",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		env         string
		expectError bool
	}{
		{"valid development", func(c *Config) {}, "development", false},
		{"valid production", func(c *Config) {}, "production", false},
		{"missing port", func(c *Config) { c.Port = "" }, "development", true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "development", true},
		{"zero reset token ttl", func(c *Config) { c.ResetTokenTTLMins = 0 }, "development", true},
		{"unknown upload provider", func(c *Config) { c.UploadProvider = "ftp" }, "development", true},
		{"empty upload provider allowed", func(c *Config) { c.UploadProvider = "" }, "development", false},
		{"cloudinary provider allowed", func(c *Config) { c.UploadProvider = "cloudinary" }, "development", false},
		{"default jwt secret in production", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, "production", true},
		{"short jwt secret in production", func(c *Config) { c.JWTSecret = "short" }, "production", true},
		{"short jwt secret tolerated in development", func(c *Config) { c.JWTSecret = "short-but-ok" }, "development", false},
		{"default db password in production", func(c *Config) { c.DBPassword = "password" }, "prod", true},
		{"missing smtp host in production", func(c *Config) { c.SMTPHost = "" }, "production", true},
		{"missing smtp host tolerated in development", func(c *Config) { c.SMTPHost = "" }, "development", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConfig(tt.env)
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

func TestConfig_TTLHelpers(t *testing.T) {
	c := &Config{JWTTTLHours: 48, ResetTokenTTLMins: 30}
	assert.Equal(t, 48*time.Hour, c.JWTTTL())
	assert.Equal(t, 30*time.Minute, c.ResetTokenTTL())
}
