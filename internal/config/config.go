package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Paystack payment provider configuration
	PaystackSecretKey string
	PaystackBaseURL   string

	// Identity service (accounts) configuration
	IdentityURL        string
	IdentityAnonKey    string
	IdentityServiceKey string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	// Public base URL used to build payment callback links
	AppBaseURL string

	// Content delivery configuration
	AssetsDir string

	// Rate limit and one-time credential configuration
	RateLimitMinutes     int
	CredentialTTLMinutes int
	ServiceName          string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		PaystackSecretKey:    getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:      getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		IdentityURL:          getEnv("IDENTITY_URL", ""),
		IdentityAnonKey:      getEnv("IDENTITY_ANON_KEY", ""),
		IdentityServiceKey:   getEnv("IDENTITY_SERVICE_KEY", ""),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:       getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:        getEnv("BREVO_FROM_NAME", "IELTS Manual Store"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:3000"),
		AssetsDir:            getEnv("ASSETS_DIR", "assets/pdfs"),
		RateLimitMinutes:     getEnvInt("RATE_LIMIT_MINUTES", 1),
		CredentialTTLMinutes: getEnvInt("CREDENTIAL_TTL_MINUTES", 10),
		ServiceName:          getEnv("SERVICE_NAME", "Storefront Service"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
