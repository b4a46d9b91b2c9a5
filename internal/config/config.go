package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Kiosk    KioskConfig
	Recon    ReconConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the signing key for badge identity tokens.
type JWTConfig struct {
	Secret          string
	BadgeExpiration string
}

// AppConfig holds server application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// KioskConfig holds the kiosk agent configuration
type KioskConfig struct {
	ServerURL      string
	Port           int
	DataDir        string
	SyncInterval   time.Duration
	SubmitTimeout  time.Duration
	AlertThreshold int
}

// ReconConfig holds the reconciliation engine tunables
type ReconConfig struct {
	ToleranceMinutes     int
	OvertimeAlertMinutes int
	UnplannedMinMinutes  int
	DefaultTargetMinutes int
}

func Load() (*Config, error) {
	// .env is optional outside development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "pointage"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:          getEnv("JWT_SECRET_KEY", ""),
		BadgeExpiration: getEnv("JWT_BADGE_EXPIRATION_TIME", "720h"),
	}

	// Kiosk configuration
	kioskPort, err := strconv.Atoi(getEnv("KIOSK_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid KIOSK_PORT: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnv("KIOSK_SYNC_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid KIOSK_SYNC_INTERVAL: %w", err)
	}

	submitTimeout, err := time.ParseDuration(getEnv("KIOSK_SUBMIT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid KIOSK_SUBMIT_TIMEOUT: %w", err)
	}

	alertThreshold, err := strconv.Atoi(getEnv("KIOSK_ALERT_THRESHOLD", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid KIOSK_ALERT_THRESHOLD: %w", err)
	}

	config.Kiosk = KioskConfig{
		ServerURL:      getEnv("KIOSK_SERVER_URL", "http://localhost:8080"),
		Port:           kioskPort,
		DataDir:        getEnv("KIOSK_DATA_DIR", "./data"),
		SyncInterval:   syncInterval,
		SubmitTimeout:  submitTimeout,
		AlertThreshold: alertThreshold,
	}

	// Reconciliation configuration
	config.Recon = ReconConfig{
		ToleranceMinutes:     getEnvInt("RECON_TOLERANCE_MINUTES", 5),
		OvertimeAlertMinutes: getEnvInt("RECON_OVERTIME_ALERT_MINUTES", 120),
		UnplannedMinMinutes:  getEnvInt("RECON_UNPLANNED_MIN_MINUTES", 15),
		DefaultTargetMinutes: getEnvInt("RECON_DEFAULT_TARGET_MINUTES", 420),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Recon.ToleranceMinutes < 0 {
		return fmt.Errorf("RECON_TOLERANCE_MINUTES must not be negative")
	}
	if c.Kiosk.SyncInterval <= 0 {
		return fmt.Errorf("KIOSK_SYNC_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
