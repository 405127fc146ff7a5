package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer             string // Issuer claim for session tokens (default: meridian-accounts)
	SessionSecret      string // Required: HMAC key for session tokens
	VerificationSecret string // Required: HMAC key for emailed verification tokens

	SessionTTL      time.Duration // Session token lifetime (default: 6h)
	ConfirmTokenTTL time.Duration // Confirmation token lifetime (default: 72h)
	ResetTokenTTL   time.Duration // Reset token lifetime (default: 1h)

	StoreDriver  string // Store driver (sqlite, postgres) (default: sqlite)
	DatabaseFile string // Path to SQLite database file (default: ./accounts.db)
	DatabaseDSN  string // Postgres DSN (required when StoreDriver is postgres)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	AppName     string // Application name used in email copy (default: Meridian)
	ClientURL   string // Base URL of the frontend the email links point at
	ConfirmPath string // Frontend path for the confirmation link (default: account/confirm-email)
	ResetPath   string // Frontend path for the reset link (default: account/reset-password)

	SMTPHost     string // Outbound mail server host
	SMTPPort     int    // Outbound mail server port (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // From address for outbound mail
	SMTPFromName string // Display name for outbound mail (default: AppName)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:             getEnvOrDefault("ACCOUNT_ISSUER", "meridian-accounts"),
		SessionSecret:      os.Getenv("ACCOUNT_SESSION_SECRET"),
		VerificationSecret: os.Getenv("ACCOUNT_VERIFICATION_SECRET"),

		SessionTTL:      getEnvDurationOrDefault("ACCOUNT_SESSION_TTL", 6*time.Hour),
		ConfirmTokenTTL: getEnvDurationOrDefault("ACCOUNT_CONFIRM_TOKEN_TTL", 72*time.Hour),
		ResetTokenTTL:   getEnvDurationOrDefault("ACCOUNT_RESET_TOKEN_TTL", time.Hour),

		StoreDriver:  getEnvOrDefault("ACCOUNT_STORE_DRIVER", "sqlite"),
		DatabaseFile: getEnvOrDefault("ACCOUNT_DATABASE_FILE", "accounts.db"),
		DatabaseDSN:  os.Getenv("ACCOUNT_DATABASE_DSN"),
		PepperFile:   getEnvOrDefault("ACCOUNT_PEPPER_FILE", "pepper"),

		AppName:     getEnvOrDefault("ACCOUNT_APP_NAME", "Meridian"),
		ClientURL:   getEnvOrDefault("ACCOUNT_CLIENT_URL", "http://localhost:3000"),
		ConfirmPath: getEnvOrDefault("ACCOUNT_CONFIRM_PATH", "account/confirm-email"),
		ResetPath:   getEnvOrDefault("ACCOUNT_RESET_PATH", "account/reset-password"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: os.Getenv("SMTP_FROM_NAME"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.SMTPFromName == "" {
		cfg.SMTPFromName = cfg.AppName
	}

	return cfg
}

// Validate rejects configurations the service cannot safely start with.
func (cfg Config) Validate() error {
	if cfg.SessionSecret == "" {
		return fmt.Errorf("ACCOUNT_SESSION_SECRET is required")
	}
	if cfg.VerificationSecret == "" {
		return fmt.Errorf("ACCOUNT_VERIFICATION_SECRET is required")
	}
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "postgres" {
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "postgres" && cfg.DatabaseDSN == "" {
		return fmt.Errorf("ACCOUNT_DATABASE_DSN is required for the postgres driver")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are taken as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
