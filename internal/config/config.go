package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP server
	HTTPHost        string        `env:"HTTP_HOST" default:""`
	HTTPPort        int           `env:"HTTP_PORT" default:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
	TrustedProxies  []string      `env:"TRUSTED_PROXIES"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" default:"http://localhost:8000,https://softwireindia.com,https://www.softwireindia.com"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" default:"users.db"`

	// Authentication
	JWTSecret            string        `env:"JWT_SECRET" required:"true"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" default:"24h"`
	SessionTTL           time.Duration `env:"SESSION_TTL" default:"24h"`
	ExtendedSessionTTL   time.Duration `env:"EXTENDED_SESSION_TTL" default:"720h"`
	BcryptCost           int           `env:"BCRYPT_COST" default:"12"`
	HashConcurrency      int           `env:"HASH_CONCURRENCY" default:"GOMAXPROCS"`
	LoginRedirectURL     string        `env:"LOGIN_REDIRECT_URL" default:"/index.html"`

	// Rate limiting of register/login
	RateLimitMax      int           `env:"RATE_LIMIT_MAX" default:"5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" default:"15m"`
	RateLimitBackend  string        `env:"RATE_LIMIT_BACKEND" default:"memory"`
	RateLimitFailOpen bool          `env:"RATE_LIMIT_FAIL_OPEN" default:"false"`
	RedisURL          string        `env:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Mail delivery
	SMTPHost       string        `env:"SMTP_HOST"`
	SMTPPort       int           `env:"SMTP_PORT" default:"587"`
	SMTPUser       string        `env:"EMAIL_USER"`
	SMTPPassword   string        `env:"EMAIL_PASS"`
	MailFrom       string        `env:"MAIL_FROM"`
	MailTimeout    time.Duration `env:"MAIL_TIMEOUT" default:"10s"`
	MailRatePerSec float64       `env:"MAIL_RATE_PER_SEC" default:"5"`
	MailBurst      int           `env:"MAIL_BURST" default:"10"`
	FrontendURL    string        `env:"FRONTEND_URL" default:"http://localhost:8000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"json"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load(".env")

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// HTTP server
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 3000); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ShutdownTimeout, "SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.TrustedProxies, "TRUSTED_PROXIES", nil); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{
		"http://localhost:8000",
		"https://softwireindia.com",
		"https://www.softwireindia.com",
	}); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", "users.db"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.VerificationTokenTTL, "VERIFICATION_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SessionTTL, "SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ExtendedSessionTTL, "EXTENDED_SESSION_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.BcryptCost, "BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HashConcurrency, "HASH_CONCURRENCY", runtime.GOMAXPROCS(0)); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LoginRedirectURL, "LOGIN_REDIRECT_URL", "/index.html"); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvInt(&config.RateLimitMax, "RATE_LIMIT_MAX", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RateLimitWindow, "RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RateLimitBackend, "RATE_LIMIT_BACKEND", "memory"); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.RateLimitFailOpen, "RATE_LIMIT_FAIL_OPEN", false); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379/0"); err != nil {
		return nil, err
	}

	// Mail
	if err := loadEnvString(&config.SMTPHost, "SMTP_HOST", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPUser, "EMAIL_USER", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPPassword, "EMAIL_PASS", ""); err != nil {
		return nil, err
	}
	defaultFrom := config.SMTPUser
	if defaultFrom == "" {
		defaultFrom = "noreply@softwireindia.com"
	}
	if err := loadEnvString(&config.MailFrom, "MAIL_FROM", defaultFrom); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.MailTimeout, "MAIL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.MailRatePerSec, "MAIL_RATE_PER_SEC", 5); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MailBurst, "MAIL_BURST", 10); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.FrontendURL, "FRONTEND_URL", "http://localhost:8000"); err != nil {
		return nil, err
	}
	config.FrontendURL = strings.TrimRight(config.FrontendURL, "/")

	// Logging
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "json"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*target = out
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}
	if c.IsProduction() && c.SMTPHost == "" {
		errors = append(errors, "SMTP_HOST is required in production")
	}
	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		errors = append(errors, "SMTP_PORT must be between 1 and 65535")
	}

	// HS256 keys shorter than the hash output weaken the signature
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}
	if c.VerificationTokenTTL <= 0 {
		errors = append(errors, "VERIFICATION_TOKEN_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}
	if c.ExtendedSessionTTL < c.SessionTTL {
		errors = append(errors, "EXTENDED_SESSION_TTL must not be shorter than SESSION_TTL")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errors = append(errors, fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.HashConcurrency < 1 {
		errors = append(errors, "HASH_CONCURRENCY must be at least 1")
	}

	if c.RateLimitMax < 1 {
		errors = append(errors, "RATE_LIMIT_MAX must be at least 1")
	}
	if c.RateLimitWindow <= 0 {
		errors = append(errors, "RATE_LIMIT_WINDOW must be positive")
	}
	validBackends := []string{"memory", "redis"}
	if !contains(validBackends, c.RateLimitBackend) {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}
	if c.RateLimitBackend == "redis" && c.RedisURL == "" {
		errors = append(errors, "REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
	}

	if c.MailTimeout <= 0 {
		errors = append(errors, "MAIL_TIMEOUT must be positive")
	}
	if c.MailRatePerSec <= 0 || c.MailBurst < 1 {
		errors = append(errors, "MAIL_RATE_PER_SEC and MAIL_BURST must be positive")
	}
	if c.FrontendURL == "" {
		errors = append(errors, "FRONTEND_URL must not be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	validLogFormats := []string{"console", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsPostgres reports whether DatabaseURL points at a Postgres server rather
// than a SQLite file.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Config) Redacted() Config {
	out := *c
	out.JWTSecret = mask(c.JWTSecret)
	out.SMTPPassword = mask(c.SMTPPassword)
	if c.IsPostgres() {
		out.DatabaseURL = "postgres://***"
	}
	if strings.Contains(c.RedisURL, "@") {
		out.RedisURL = "redis://***"
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
