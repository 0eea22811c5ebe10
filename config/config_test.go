package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:               "production",
		JWTAccessSecret:   "a",
		JWTRefreshSecret:  "r",
		SignedTokenSecret: "s",
		AccessTTL:         30 * time.Minute,
		RefreshTTL:        24 * time.Hour,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.JWTRefreshSecret = c.JWTAccessSecret
	assert.ErrorContains(t, c.Validate(), "must differ")

	c = validConfig()
	c.SignedTokenSecret = c.JWTRefreshSecret
	assert.ErrorContains(t, c.Validate(), "SIGNED_TOKEN_SECRET")

	c = validConfig()
	c.JWTAccessSecret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_ACCESS_SECRET is required")

	c = validConfig()
	c.AccessTTL = 48 * time.Hour
	assert.ErrorContains(t, c.Validate(), "shorter")
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("API_PREFIX", "/v2")
	t.Setenv("JWT_ACCESS_TTL", "10m")
	t.Setenv("JWT_REFRESH_TTL", "not-a-duration")
	t.Setenv("FRONTEND_URL", "https://pizza.example/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	c := Load()
	assert.Equal(t, "/v2", c.APIPrefix)
	assert.Equal(t, 10*time.Minute, c.AccessTTL)
	assert.Equal(t, 168*time.Hour, c.RefreshTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins())
	assert.Equal(t, "https://pizza.example/auth/jwt/activate?token=abc", c.ActivationURL("abc"))
	assert.Equal(t, "https://pizza.example/auth/jwt/reset?token=abc", c.PasswordResetURL("abc"))
}
