// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion      string
	SnapshotBucket string
	RosterBucket   string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBMaxConns int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SES
	SESSenderEmail string
	DashboardURL   string

	// SNS
	AssignmentTopicARN string

	// Matching
	MatchThreshold float64
	CandidateLimit int
	MatchCacheTTL  time.Duration

	// Application
	Port     string
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SnapshotBucket: getEnv("SNAPSHOT_BUCKET", ""),
		RosterBucket:   getEnv("ROSTER_BUCKET", getEnv("S3_BUCKET", "")),

		// Database
		DBHost:     getEnv("DB_HOST", getEnv("TAVARA_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", getEnvInt("TAVARA_DB_PORT", 5432)),
		DBName:     getEnv("DB_NAME", getEnv("TAVARA_DB_NAME", "tavara")),
		DBUser:     getEnv("DB_USER", getEnv("TAVARA_DB_USER", "postgres")),
		DBPassword: getEnv("DB_PASSWORD", getEnv("TAVARA_DB_PASSWORD", "")),
		DBMaxConns: getEnvInt("DB_MAX_CONNS", 10),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),
		DashboardURL:   getEnv("DASHBOARD_URL", ""),

		// SNS
		AssignmentTopicARN: getEnv("ASSIGNMENT_TOPIC_ARN", ""),

		// Matching
		MatchThreshold: getEnvFloat("MATCH_THRESHOLD", 0.3),
		CandidateLimit: getEnvInt("MATCH_CANDIDATE_LIMIT", 10),
		MatchCacheTTL:  getEnvDuration("MATCH_CACHE_TTL", 10*time.Minute),

		// Application
		Port:     getEnv("PORT", "8080"),
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	sslMode := "require"
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
