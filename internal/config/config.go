package config

import (
	"os"
	"strconv"
	"time"

	"tourops/internal/database"
	"tourops/internal/external"
	"tourops/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Scheduling behavior toggles
	RevalidateOnUpdate bool
	BulkStrictCapacity bool

	Database database.Config
	NATS     messaging.Config
	Notifier external.NotifierConfig
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		// Default stays permissive: editing role/notes must not start
		// failing on a schedule that was valid when the assignment was made.
		RevalidateOnUpdate: getEnvBool("ASSIGNMENT_REVALIDATE_ON_UPDATE", false),
		// Default is strict: a batch may not overshoot a leg's capacity.
		BulkStrictCapacity: getEnvBool("SEAT_BULK_STRICT_CAPACITY", true),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "tourops"),
			Password:           getEnv("DB_PASSWORD", "tourops123"),
			DBName:             getEnv("DB_NAME", "tourops"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "tourops"),
			ClientID:  getEnv("NATS_CLIENT_ID", "tourops-api"),
		},

		Notifier: external.NotifierConfig{
			BaseURL: getEnv("OPS_NOTIFIER_URL", ""),
			Channel: getEnv("OPS_NOTIFIER_CHANNEL", "scheduling"),
			Timeout: time.Duration(getEnvInt("OPS_NOTIFIER_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable value or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
