package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth. When AuthEnabled is true, write endpoints require a signed
	// service token issued with AuthSecret.
	AuthEnabled bool
	AuthSecret  string

	// Generator seed for synthetic comparables and trends. Zero means
	// seed from the wall clock.
	GeneratorSeed int64
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "propval"),
		DBPassword: getEnv("DB_PASSWORD", "propval"),
		DBName:     getEnv("DB_NAME", "propval"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Auth
		AuthEnabled: getEnv("AUTH_ENABLED", "false") == "true",
		AuthSecret:  getEnv("AUTH_SECRET", "fallback-secret-key-for-dev-only"),
	}

	seedStr := getEnv("GENERATOR_SEED", "0")
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid GENERATOR_SEED value '%s', falling back to 0\n", seedStr)
		seed = 0
	}
	config.GeneratorSeed = seed

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
