package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Session    SessionConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Newsletter NewsletterConfig
	Worker     WorkerConfig
	App        AppConfig
}

type ServerConfig struct {
	Port       string
	CORSOrigin string
}

// BackendConfig describes the hosted database/auth backend.
// URL is the Postgres connection URL, AnonKey the public web API key used for
// password sign-in and ServiceRoleKey the service-account credential (JSON or path).
type BackendConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	ProjectID      string
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint string
	Region   string
	Bucket   string
}

type NewsletterConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type WorkerConfig struct {
	LinkageAuditSchedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	cfg := load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadForMigrations only requires what the migrate command uses: the database URL.
func LoadForMigrations() (*Config, error) {
	cfg := load()
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func load() *Config {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("APP_ENV", "development")

	return &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		Backend: BackendConfig{
			URL:            getEnv("BACKEND_URL", ""),
			AnonKey:        getEnv("BACKEND_ANON_KEY", ""),
			ServiceRoleKey: getEnv("BACKEND_SERVICE_ROLE_KEY", ""),
			ProjectID:      getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 5*24*time.Hour),
			Secure:     env == "production",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint: getEnv("STORAGE_ENDPOINT", ""),
			Region:   getEnv("STORAGE_REGION", "us-east-1"),
			Bucket:   getEnv("STORAGE_BUCKET", "images"),
		},
		Newsletter: NewsletterConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("NEWSLETTER_FROM_EMAIL", "newsletter@example.com"),
			FromName:       getEnv("NEWSLETTER_FROM_NAME", "Travel Experiences"),
		},
		Worker: WorkerConfig{
			LinkageAuditSchedule: getEnv("LINKAGE_AUDIT_SCHEDULE", "0 0 3 * * *"),
		},
		App: AppConfig{
			Environment: env,
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	if c.Backend.AnonKey == "" {
		return fmt.Errorf("BACKEND_ANON_KEY is required")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}

	return nil
}

func (c *Config) ValidateDatabase() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
