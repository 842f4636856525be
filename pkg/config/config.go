package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Geolocation GeolocationConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Deals       DealsConfig
	RateLimit   RateLimitConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Environment    string
	LogLevel       string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// GeolocationConfig holds geocoder configuration
type GeolocationConfig struct {
	Provider  string
	BaseURL   string
	UserAgent string
}

// StorageConfig holds the S3 compatible object storage configuration
type StorageConfig struct {
	Endpoint            string
	Region              string
	AccessKeyID         string
	SecretAccessKey     string
	PublicURL           string
	DealBucket          string
	ProfileBucket       string
	DealerProfileBucket string
	ForcePathStyle      bool
}

// AuthConfig holds token and cookie settings
type AuthConfig struct {
	JWTSecret    string
	CookieName   string
	TokenTTL     time.Duration
	SecureCookie bool
}

// DealsConfig holds deal listing settings
type DealsConfig struct {
	TimeZone        string
	TopDefaultLimit int
	TopMaxLimit     int
	ImageFanOut     int
}

// RateLimitConfig holds limits for the credential endpoints
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "localdeals"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Geolocation: GeolocationConfig{
			Provider:  getEnv("GEOLOCATION_PROVIDER", "mock"),
			BaseURL:   getEnv("GEOLOCATION_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOLOCATION_USER_AGENT", "localdeals-backend/1.0"),
		},
		Storage: StorageConfig{
			Endpoint:            getEnv("STORAGE_ENDPOINT", ""),
			Region:              getEnv("STORAGE_REGION", "eu-central-1"),
			AccessKeyID:         getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey:     getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicURL:           getEnv("STORAGE_PUBLIC_URL", ""),
			DealBucket:          getEnv("STORAGE_DEAL_BUCKET", "deal-images"),
			ProfileBucket:       getEnv("STORAGE_PROFILE_BUCKET", "profile-images"),
			DealerProfileBucket: getEnv("STORAGE_DEALER_PROFILE_BUCKET", "dealer-profile-images"),
			ForcePathStyle:      getEnvAsBool("STORAGE_FORCE_PATH_STYLE", true),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "jwt"),
			TokenTTL:     getEnvAsDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
			SecureCookie: getEnvAsBool("AUTH_SECURE_COOKIE", false),
		},
		Deals: DealsConfig{
			TimeZone:        getEnv("DEALS_TIMEZONE", "Europe/Berlin"),
			TopDefaultLimit: getEnvAsInt("DEALS_TOP_DEFAULT_LIMIT", 10),
			TopMaxLimit:     getEnvAsInt("DEALS_TOP_MAX_LIMIT", 100),
			ImageFanOut:     getEnvAsInt("DEALS_IMAGE_FANOUT", 4),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "localdeals"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("AUTH_JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = "development-secret"
	}
	if _, err := time.LoadLocation(c.Deals.TimeZone); err != nil {
		return fmt.Errorf("invalid DEALS_TIMEZONE %q: %w", c.Deals.TimeZone, err)
	}
	if c.Deals.TopDefaultLimit <= 0 || c.Deals.TopMaxLimit < c.Deals.TopDefaultLimit {
		return fmt.Errorf("invalid top deal limits: default=%d max=%d", c.Deals.TopDefaultLimit, c.Deals.TopMaxLimit)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether object storage is configured
func (c *StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.PublicURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
