package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(newTestViper(nil))

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.NotEqual(t, cfg.JWTSecret, cfg.RefreshTokenSecret)
	assert.Equal(t, UsedTokenStorePostgres, cfg.UsedTokenStore)
	assert.Equal(t, ObjectStoreMinio, cfg.ObjectStoreDriver)
	assert.Equal(t, []string{".pdf"}, cfg.AllowedFileTypes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.StorageRequireAuth)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg := fromViper(newTestViper(map[string]any{
		"JWT_EXPIRY_DURATION":  "15m",
		"OBJECT_STORE_DRIVER":  "S3",
		"ALLOWED_FILE_TYPES":   "PDF, .Docx ,txt",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"STORAGE_REQUIRE_AUTH": "true",
		"JWT_SECRET":           "",
	}))

	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, ObjectStoreS3, cfg.ObjectStoreDriver)
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, cfg.AllowedFileTypes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.StorageRequireAuth)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromViper_InvalidDurationFallsBack(t *testing.T) {
	cfg := fromViper(newTestViper(map[string]any{
		"JWT_EXPIRY_DURATION":           "soon",
		"REFRESH_TOKEN_EXPIRY_DURATION": "-5m",
	}))

	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiryDuration)
}

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".md"}, normalizeExtensions([]string{"PDF", ".MD"}))
	assert.Empty(t, normalizeExtensions(nil))
}
