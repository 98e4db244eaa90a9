package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used by the field client when NIRMAN_API_URL is unset.
const DefaultAPIURL = "http://localhost:3000/api"

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

// UploadConfig holds file upload configuration
type UploadConfig struct {
	Path          string
	MaxFileSizeMB int
	MaxImages     int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowMinutes int
	MaxRequests   int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	expiryDays, _ := strconv.Atoi(getEnv("JWT_EXPIRE_DAYS", "7"))
	maxFileMB, _ := strconv.Atoi(getEnv("MAX_FILE_SIZE_MB", "10"))
	maxImages, _ := strconv.Atoi(getEnv("MAX_PROGRESS_IMAGES", "5"))
	windowMins, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_MINUTES", "15"))
	maxRequests, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "100"))

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASS", ""),
			DBName:   getEnv("DB_NAME", "nirman_fieldworks"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "fallback_secret_key"),
			ExpiryDays: expiryDays,
		},
		Upload: UploadConfig{
			Path:          getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSizeMB: maxFileMB,
			MaxImages:     maxImages,
		},
		RateLimit: RateLimitConfig{
			WindowMinutes: windowMins,
			MaxRequests:   maxRequests,
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// APIURL returns the base URL the field client should talk to.
// Trailing slashes are stripped so path joining stays predictable.
func APIURL() string {
	url := strings.TrimSpace(getEnv("NIRMAN_API_URL", DefaultAPIURL))
	if url == "" {
		url = DefaultAPIURL
	}
	return strings.TrimRight(url, "/")
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("CORS_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://nirman-raipur-app.vercel.app"
	}
	return origins
}
