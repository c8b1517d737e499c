// Package config collects process environment into one struct. Missing
// backend configuration must not crash the process: callers check
// MissingBackend and run degraded instead.
package config

import (
	"os"
	"strings"
)

type Config struct {
	DatabaseURL string
	HTTPPort    string

	JWTSecret string

	ResendAPIKey string
	MailFrom     string
	MailFromName string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string

	CORSOrigins []string

	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() Config {
	cfg := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getenv("HTTP_PORT", "8080"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		MailFrom:          getenv("MAIL_FROM", "noreply@toolhaven.app"),
		MailFromName:      getenv("MAIL_FROM_NAME", "ToolHaven"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthRedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", "admin@toolhaven.local"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg
}

// MissingBackend names the unset variables the data backend needs. A
// non-empty result means the server serves the connection-error state on
// every data route instead of exiting.
func (c Config) MissingBackend() []string {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

// FederatedEnabled reports whether the federated sign-in flow is configured.
func (c Config) FederatedEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthClientSecret != "" && c.OAuthRedirectURL != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
