// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting. It is read once at startup and not modified.
type Config struct {
	// Server
	Addr       string
	StaticPath string

	// Storage
	DBPath string

	// Auth
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	TokenDuration time.Duration

	// Replication
	ReplicationURL        string
	ReplicationMaxRetries int
	ReplicationBaseDelay  time.Duration
	ReplicationTimeout    time.Duration
	ReplicationRate       float64

	// Seed document; empty means the embedded defaults.
	SeedFile string
}

// Load reads the configuration from environment variables.
// It returns an error naming every required variable that is unset.
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.Addr = getEnvString("ADDR", ":8080")
	cfg.StaticPath = getEnvString("STATIC_PATH", "./web")
	cfg.DBPath = getEnvString("DB_PATH", "./data/ferramentas.db")
	cfg.AdminUsername = getEnvString("ADMIN_USERNAME", "admin")
	cfg.TokenDuration = getEnvDuration("TOKEN_DURATION", 12*time.Hour)
	cfg.ReplicationURL = getEnvString("REPLICATION_URL", "")
	cfg.ReplicationMaxRetries = getEnvInt("REPLICATION_MAX_RETRIES", 3)
	cfg.ReplicationBaseDelay = getEnvDuration("REPLICATION_BASE_DELAY", time.Second)
	cfg.ReplicationTimeout = getEnvDuration("REPLICATION_TIMEOUT", 0)
	cfg.ReplicationRate = getEnvFloat("REPLICATION_RATE", 0)
	cfg.SeedFile = getEnvString("SEED_FILE", "")

	return cfg, nil
}

// LoadStorage reads only the settings needed to open the database, for
// commands that never serve requests.
func LoadStorage() *Config {
	return &Config{DBPath: getEnvString("DB_PATH", "./data/ferramentas.db")}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
