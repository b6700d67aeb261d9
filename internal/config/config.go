package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	JWTSecret           string // HMAC key for bearer tokens issued by the auth provider
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	LogLevel            string
	BodyLimitMB         int

	StorageDriver string // "s3" (default) or "supabase"
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3UseSSL      bool
	S3PublicURL   string // optional CDN/base URL; defaults to endpoint/bucket

	SupabaseURL       string
	SupabaseSecretKey string // must be service_role key, not anon key
	SupabaseBucket    string

	BrevoAPIKey string // empty disables outgoing email
	MailFrom    string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BODY_LIMIT_MB", 20)
	viper.SetDefault("STORAGE_DRIVER", "s3")
	viper.SetDefault("S3_BUCKET", "listing-images")
	viper.SetDefault("SUPABASE_BUCKET", "listing-images")

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		Port:                viper.GetString("PORT"),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   viper.GetBool("ALLOW_CROSS_SITE_DEV"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		BodyLimitMB:         viper.GetInt("BODY_LIMIT_MB"),
		StorageDriver:       strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER"))),
		S3Endpoint:          viper.GetString("S3_ENDPOINT"),
		S3AccessKey:         viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         viper.GetString("S3_SECRET_KEY"),
		S3Bucket:            viper.GetString("S3_BUCKET"),
		S3UseSSL:            viper.GetBool("S3_USE_SSL"),
		S3PublicURL:         strings.TrimRight(viper.GetString("S3_PUBLIC_URL"), "/"),
		SupabaseURL:         strings.TrimRight(viper.GetString("SUPABASE_URL"), "/"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		SupabaseBucket:      viper.GetString("SUPABASE_BUCKET"),
		BrevoAPIKey:         firstNonEmpty(viper.GetString("BREVO_API_KEY"), viper.GetString("SENDINBLUE_API_KEY")),
		MailFrom:            viper.GetString("MAIL_FROM"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
