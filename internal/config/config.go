package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// PaymentBaseURL and RewardBaseURL point at the external collaborators.
	PaymentBaseURL string
	RewardBaseURL  string
	PaymentAPIKey  string

	// CollaboratorTimeout bounds each external call so a 10-pull stays
	// inside the overall latency budget.
	CollaboratorTimeout time.Duration

	IdempotencyTTL       time.Duration
	IdempotencyCacheSize int

	// IntegritySweepInterval controls how often the ledger integrity worker
	// replays the transaction log. Zero selects the worker default.
	IntegritySweepInterval time.Duration

	DeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		Version:     getEnv("VERSION", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "medalgacha"),

		PaymentBaseURL: getEnv("PAYMENT_BASE_URL", ""),
		RewardBaseURL:  getEnv("REWARD_BASE_URL", ""),
		PaymentAPIKey:  getEnv("PAYMENT_API_KEY", ""),

		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "logs/dead_letter.jsonl"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	timeoutMs, err := getEnvInt("COLLABORATOR_TIMEOUT_MS", 800)
	if err != nil {
		return nil, err
	}
	cfg.CollaboratorTimeout = time.Duration(timeoutMs) * time.Millisecond

	ttlHours, err := getEnvInt("IDEMPOTENCY_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.IdempotencyTTL = time.Duration(ttlHours) * time.Hour

	cacheSize, err := getEnvInt("IDEMPOTENCY_CACHE_SIZE", 4096)
	if err != nil {
		return nil, err
	}
	cfg.IdempotencyCacheSize = cacheSize

	sweepMinutes, err := getEnvInt("INTEGRITY_SWEEP_INTERVAL_MINUTES", 0)
	if err != nil {
		return nil, err
	}
	cfg.IntegritySweepInterval = time.Duration(sweepMinutes) * time.Minute

	if cfg.PaymentBaseURL == "" {
		return nil, fmt.Errorf("PAYMENT_BASE_URL environment variable must be set")
	}
	if cfg.RewardBaseURL == "" {
		return nil, fmt.Errorf("REWARD_BASE_URL environment variable must be set")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
