package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Video completion policy: a COMPLETED claim on a video item is accepted
	// only once the stored watch time covers RequiredWatchPercent of the item
	// duration, within WatchTolerancePercent of slack.
	RequiredWatchPercent  int
	WatchTolerancePercent int

	// Base URL used to build public certificate verification links
	CertVerifyBaseURL string
	// Optional endpoint notified when a certificate is issued
	CertWebhookURL string

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),

		RequiredWatchPercent:  getEnvInt("REQUIRED_WATCH_PERCENT", 70),
		WatchTolerancePercent: getEnvInt("WATCH_TOLERANCE_PERCENT", 5),

		CertVerifyBaseURL: getEnv("CERT_VERIFY_BASE_URL", "http://localhost:3000"),
		CertWebhookURL:    getEnv("CERT_WEBHOOK_URL", ""),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RequiredWatchPercent <= 0 || AppConfig.RequiredWatchPercent > 100 {
		log.Println("Warning: REQUIRED_WATCH_PERCENT out of range, falling back to 70.")
		AppConfig.RequiredWatchPercent = 70
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
