package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Simulator server
	Port    string
	Storage string // "memory" or "postgres"

	// Database (postgres storage only)
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseURL      string

	// Redis (settlement queue, session persistence)
	RedisURL string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Wallet client
	APIBaseURL       string
	SessionFile      string
	SessionKey       string
	PollInterval     time.Duration
	CountdownBudget  time.Duration
	ExtendedInterval time.Duration
	ExtendedBudget   time.Duration

	// Simulator behaviour
	SettlementDelay time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		Storage:          getEnv("STORAGE", "memory"),
		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
		DatabaseName:     getEnv("DATABASE_NAME", "walletcore"),
		DatabaseUser:     getEnv("DATABASE_USERNAME", "postgres"),
		DatabasePassword: getEnv("DATABASE_PASSWORD", "password"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:         getDuration("TOKEN_TTL", 24*time.Hour),
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:8080"),
		SessionFile:      getEnv("SESSION_FILE", ".walletcore_session.json"),
		SessionKey:       getEnv("SESSION_KEY", "walletcore:session"),
		PollInterval:     getDuration("POLL_INTERVAL", 20*time.Second),
		CountdownBudget:  getDuration("COUNTDOWN_BUDGET", 5*time.Minute),
		ExtendedInterval: getDuration("EXTENDED_INTERVAL", 5*time.Second),
		ExtendedBudget:   getDuration("EXTENDED_BUDGET", 40*time.Second),
		SettlementDelay:  getDuration("SETTLEMENT_DELAY", 30*time.Second),
	}

	// Construct PostgreSQL DSN
	cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName)

	return cfg
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default %s", key, val, fallback)
		return fallback
	}
	return d
}
