package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration, loaded from the environment.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`
}

const (
	defaultJWTExpiry     = time.Hour
	defaultRefreshExpiry = 7 * 24 * time.Hour
)

// LoadConfig loads configuration from environment variables, with an optional
// .env file for local development. Missing critical values are logged but do
// not fail startup; the affected feature degrades instead.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "fca-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:                viper.GetString("PGSQL_URL"),
		Port:                       viper.GetString("PORT"),
		IsProduction:               viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:              viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:                  viper.GetString("JWT_SECRET"),
		JWTExpiryDuration:          durationEnv("JWT_EXPIRY_DURATION", defaultJWTExpiry),
		JWTIssuer:                  viper.GetString("JWT_ISSUER"),
		RefreshTokenExpiryDuration: durationEnv("REFRESH_TOKEN_EXPIRY_DURATION", defaultRefreshExpiry),
		GoogleClientID:             viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:         viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:          viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:            viper.GetString("FRONTEND_BASE_URL"),
		PosthogAPIKey:              viper.GetString("POSTHOG_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random"
		log.Println("Warning: JWT_SECRET not set. Using default insecure key. DO NOT use this in production.")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		log.Println("Warning: Google OAuth is not fully configured (GOOGLE_CLIENT_ID/SECRET/REDIRECT_URL). Google sign-in will not function.")
	}

	return cfg, nil
}

// durationEnv parses a duration environment variable, falling back to the
// given default on empty or malformed values.
func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
