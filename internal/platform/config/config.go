package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Object store drivers.
const (
	ObjectStoreMinio  = "minio"
	ObjectStoreS3     = "s3"
	ObjectStoreMemory = "memory"
)

// Used refresh token stores.
const (
	UsedTokenStorePostgres = "postgres"
	UsedTokenStoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenSecret         string
	UsedTokenStore             string
	UsedTokenSweepInterval     time.Duration

	// Object store
	ObjectStoreDriver    string
	ObjectStoreEndpoint  string
	ObjectStoreAccessKey string
	ObjectStoreSecretKey string
	ObjectStoreRegion    string
	DefaultBucket        string
	AllowedFileTypes     []string
	MaxUploadMemory      int64
	StorageRequireAuth   bool

	// HTTP extras
	LoginRateLimit     string
	CORSAllowedOrigins []string

	// Observability
	PosthogAPIKey string
	SentryDSN     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8000")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "knowledge-hub")
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	v.SetDefault("USED_TOKEN_STORE", UsedTokenStorePostgres)
	v.SetDefault("USED_TOKEN_SWEEP_INTERVAL", "1h")
	v.SetDefault("OBJECT_STORE_DRIVER", ObjectStoreMinio)
	v.SetDefault("MINIO_URL", "http://localhost:4003")
	v.SetDefault("MINIO_ACCESS_KEY", "xtrimchat")
	v.SetDefault("MINIO_SECRET_KEY", "xtrimchat")
	v.SetDefault("OBJECT_STORE_REGION", "us-east-1")
	v.SetDefault("BUCKET_NAME", "knowledge-hub")
	v.SetDefault("ALLOWED_FILE_TYPES", ".pdf")
	v.SetDefault("MAX_UPLOAD_MEMORY", 32<<20)
	v.SetDefault("STORAGE_REQUIRE_AUTH", false)
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("SENTRY_DSN", "")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOr(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")

	cfg.RefreshTokenSecret = v.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "" {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
		cfg.RefreshTokenSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
	}
	cfg.RefreshTokenExpiryDuration = durationOr(v, "REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.UsedTokenStore = strings.ToLower(v.GetString("USED_TOKEN_STORE"))
	cfg.UsedTokenSweepInterval = durationOr(v, "USED_TOKEN_SWEEP_INTERVAL", time.Hour)

	cfg.ObjectStoreDriver = strings.ToLower(v.GetString("OBJECT_STORE_DRIVER"))
	cfg.ObjectStoreEndpoint = v.GetString("MINIO_URL")
	cfg.ObjectStoreAccessKey = v.GetString("MINIO_ACCESS_KEY")
	cfg.ObjectStoreSecretKey = v.GetString("MINIO_SECRET_KEY")
	cfg.ObjectStoreRegion = v.GetString("OBJECT_STORE_REGION")
	cfg.DefaultBucket = v.GetString("BUCKET_NAME")
	cfg.AllowedFileTypes = normalizeExtensions(splitList(v.GetString("ALLOWED_FILE_TYPES")))
	cfg.MaxUploadMemory = v.GetInt64("MAX_UPLOAD_MEMORY")
	cfg.StorageRequireAuth = v.GetBool("STORAGE_REQUIRE_AUTH")

	cfg.LoginRateLimit = v.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	cfg.SentryDSN = v.GetString("SENTRY_DSN")

	if cfg.JWTExpiryDuration >= cfg.RefreshTokenExpiryDuration {
		log.Printf("Warning: REFRESH_TOKEN_EXPIRY_DURATION (%s) should be longer than JWT_EXPIRY_DURATION (%s).\n",
			cfg.RefreshTokenExpiryDuration, cfg.JWTExpiryDuration)
	}

	return cfg
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeExtensions lowercases extensions and makes sure each starts with a dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
