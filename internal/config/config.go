package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email transport providers
const (
	ProviderSMTP    = "smtp"
	ProviderHTTP    = "http"
	ProviderConsole = "console"
)

// Config holds application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
	Port    string
	Host    string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// EmailConfig holds notification transport configuration
type EmailConfig struct {
	Provider   string // "smtp", "http", "console" (for development)
	SMTPHost   string
	SMTPPort   int
	Username   string
	Password   string
	FromEmail  string
	FromName   string
	APIURL     string
	APIKey     string
	Timeout    time.Duration
	AdminEmail string
}

// RateLimitConfig holds the public form rate limiter configuration.
// The limiter is disabled when RedisAddr is empty.
type RateLimitConfig struct {
	RedisAddr      string
	RedisPassword  string
	Prefix         string
	Requests       int
	Window         time.Duration
	TrustedProxies []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
	File  string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://x-consulting.vercel.app",
	"https://akayconseil.com",
	"https://www.akayconseil.com",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "X Consultation API"),
			Version: getEnv("APP_VERSION", "1.0.0"),
			Debug:   getEnvAsBool("DEBUG", false),
			Port:    getEnv("PORT", "5211"),
			Host:    getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite:///./xconsultation.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_HOSTS", defaultOrigins),
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Accept", "X-Request-ID"},
			MaxAge:         86400,
		},
		Email: EmailConfig{
			Provider:   strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderConsole)),
			SMTPHost:   getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			FromEmail:  getEnv("EMAIL_FROM", ""),
			FromName:   getEnv("EMAIL_FROM_NAME", "X Consultation"),
			APIURL:     getEnv("EMAIL_API_URL", ""),
			APIKey:     getEnv("EMAIL_API_KEY", ""),
			Timeout:    time.Duration(getEnvAsInt("EMAIL_TIMEOUT_SECONDS", 10)) * time.Second,
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:      getEnv("REDIS_ADDR", ""),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "xconsultation:ratelimit"),
			Requests:       getEnvAsInt("RATE_LIMIT_REQUESTS", 5),
			Window:         time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", nil),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}

	switch cfg.Email.Provider {
	case ProviderConsole:
	case ProviderSMTP, ProviderHTTP:
		if cfg.Email.FromEmail == "" {
			return fmt.Errorf("EMAIL_FROM must be set for provider %q", cfg.Email.Provider)
		}
		if cfg.Email.AdminEmail == "" {
			return fmt.Errorf("ADMIN_EMAIL must be set for provider %q", cfg.Email.Provider)
		}
		if cfg.Email.Provider == ProviderSMTP && cfg.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST must be set")
		}
		if cfg.Email.Provider == ProviderHTTP && cfg.Email.APIURL == "" {
			return fmt.Errorf("EMAIL_API_URL must be set")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER: %s", cfg.Email.Provider)
	}
	if cfg.Email.Timeout <= 0 {
		return fmt.Errorf("EMAIL_TIMEOUT_SECONDS must be greater than 0")
	}

	if cfg.RateLimit.RedisAddr != "" {
		if cfg.RateLimit.Requests <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be greater than 0")
		}
		if cfg.RateLimit.Window <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be greater than 0")
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// IsPostgres checks if the database URL is for PostgreSQL
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}

// GetSQLitePath extracts SQLite database path from URL
func (c *DatabaseConfig) GetSQLitePath() string {
	return strings.TrimPrefix(c.URL, "sqlite:///")
}

// From returns the RFC 5322 sender, including the display name when configured
func (c *EmailConfig) From() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}
