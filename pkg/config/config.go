package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	Env          string
	DatabaseURL  string
	JWTSecret    string
	JWTExpiryHrs int
	UploadDir    string
	StatsFile    string
	BaseURL      string

	// Outbound email. Business logic never reads the environment directly;
	// these are handed to the notifier and mailer at construction.
	EmailEnabled bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	EmailFrom    string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabaseURL:  getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:    getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTExpiryHrs: getEnvInt("JWT_EXPIRY_HOURS", 72),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		StatsFile:    getEnv("STATS_FILE", "data/stats.json"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		EmailEnabled: getEnvBool("EMAIL_NOTIFICATIONS_ENABLED", false),
		SMTPHost:     getEnv("EMAIL_HOST", ""),
		SMTPPort:     getEnvInt("EMAIL_PORT", 587),
		SMTPUser:     getEnv("EMAIL_USER", ""),
		SMTPPass:     getEnv("EMAIL_PASS", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@localhost"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
