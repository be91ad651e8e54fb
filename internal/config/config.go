package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	JWTSecret       []byte
	TokenTTL        time.Duration
	BcryptCost      int
	RequestTimeout  time.Duration
	AllowedOrigins  []string
	BackupPath      string
	BackupSchedule  string // standard cron expression
	BackupRetention int    // number of backup files to keep
	LogLevel        string
}

// Load loads configuration from the environment, honoring a .env file if present.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	retention, err := strconv.Atoi(getEnv("BACKUP_RETENTION", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETENTION: %w", err)
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./taskvault.db"),
		JWTSecret:       []byte(secret),
		TokenTTL:        tokenTTL,
		BcryptCost:      bcryptCost,
		RequestTimeout:  requestTimeout,
		AllowedOrigins:  []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		BackupPath:      getEnv("BACKUP_PATH", "./backups"),
		BackupSchedule:  getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
		BackupRetention: retention,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
