package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Cloud extraction configuration
	WhispererAPIKey  string
	WhispererBaseURL string
	WhispererTimeout time.Duration

	// Local recognition configuration
	OCRLanguage string

	// Database configuration
	DatabaseURL string

	// Archive storage configuration
	S3Region string
	S3Bucket string

	// Logging configuration
	LogFormat string
	LogLevel  string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}

	// Create and populate config
	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 120)) * time.Second,

		// Cloud extraction configuration
		WhispererAPIKey:  os.Getenv("WHISPERER_API_KEY"),
		WhispererBaseURL: getEnvString("WHISPERER_BASE_URL", "https://llmwhisperer-api.us-central.unstract.com"),
		WhispererTimeout: time.Duration(getEnvInt("WHISPERER_TIMEOUT", 30)) * time.Second,

		// Local recognition configuration
		OCRLanguage: getEnvString("OCR_LANGUAGE", "eng"),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		// Archive storage configuration
		S3Region: getEnvString("S3_REGION", "af-south-1"),
		S3Bucket: getEnvString("S3_BUCKET", "bank-statements"),

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
	}

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	// Check if the cloud extraction API key is provided
	if config.WhispererAPIKey == "" {
		log.Println("Warning: No whisperer API key provided. Scanned statements will use local recognition only.")
	}

	// Check if the database URL is provided
	if config.DatabaseURL == "" {
		log.Println("Warning: No database URL provided. Statement persistence will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
