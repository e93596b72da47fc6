package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	StorageBucket   string
	JWTSecret       string
	JWTExpiry       int64

	// Service account credentials, inline JSON first, then a file path.
	ServiceAccountJSON string
	ServiceAccountPath string

	// LedgerBackend selects where users, stores, requests and offers live: "memory" or "firestore".
	LedgerBackend string
	TimeToLock    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:       getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		LedgerBackend:   getEnv("LEDGER_BACKEND", "memory"),
		TimeToLock:      getEnvAsDuration("TIME_TO_LOCK", 24*time.Hour),
		RateLimitRPS:    getEnvAsFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  int(getEnvAsInt64("RATE_LIMIT_BURST", 20)),

		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
	}

	// Firestore needs a project; fall back to the in-memory ledger without one.
	if config.LedgerBackend == "firestore" && config.FirebaseProject == "" {
		config.LedgerBackend = "memory"
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}
