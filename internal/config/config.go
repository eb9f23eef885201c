package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	TenantID  string
	JWTSecret string
	Database  DatabaseConfig
	Drive     DriveConfig
	Gemini    GeminiConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// DriveConfig holds Google Drive client configuration
type DriveConfig struct {
	ServiceAccountFile string
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	tenantID := os.Getenv("TENANT_ID")
	if tenantID == "" {
		return nil, fmt.Errorf("TENANT_ID is required")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	aiTimeout := 120
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GEMINI_TIMEOUT_SECONDS: %w", err)
		}
		aiTimeout = parsed
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "10000"),
		TenantID:  tenantID,
		JWTSecret: os.Getenv("JWT_SECRET"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "invoicepipe"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Drive: DriveConfig{
			ServiceAccountFile: getEnv("DRIVE_SERVICE_ACCOUNT_FILE", "service_account.json"),
		},
		Gemini: GeminiConfig{
			APIKey:  geminiKey,
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: time.Duration(aiTimeout) * time.Second,
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
