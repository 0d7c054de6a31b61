package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	ServiceAPIKey        string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	LLM                  LLMConfig
	Embedding            EmbeddingConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

// LLMConfig holds the chat-completions API configuration.
type LLMConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// EmbeddingConfig holds the embeddings API configuration.
type EmbeddingConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	Dimensions     int
	TimeoutSeconds int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "assistant"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Build DSN for the PostgreSQL connection
	dbConfig.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.Port, dbConfig.SSLMode)

	llmTimeout, err := strconv.Atoi(getEnv("LLM_TIMEOUT_SECONDS", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS: %w", err)
	}

	embeddingTimeout, err := strconv.Atoi(getEnv("EMBEDDING_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMBEDDING_TIMEOUT_SECONDS: %w", err)
	}

	embeddingDims, err := strconv.Atoi(getEnv("EMBEDDING_DIMENSIONS", "384"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMBEDDING_DIMENSIONS: %w", err)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	llmConfig := LLMConfig{
		BaseURL:        getEnv("LLM_API_BASE", "https://api.sambanova.ai/v1"),
		APIKey:         getEnv("LLM_API_KEY", ""),
		Model:          getEnv("LLM_MODEL_NAME", "Llama-4-Maverick-17B-128E-Instruct"),
		TimeoutSeconds: llmTimeout,
	}

	embeddingConfig := EmbeddingConfig{
		BaseURL:        getEnv("EMBEDDING_API_BASE", llmConfig.BaseURL),
		APIKey:         getEnv("EMBEDDING_API_KEY", llmConfig.APIKey),
		Model:          getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		Dimensions:     embeddingDims,
		TimeoutSeconds: embeddingTimeout,
	}

	// Return complete configuration
	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:4200"),
		Environment:          getEnv("APP_ENV", "development"),
		ServiceAPIKey:        getEnv("SERVICE_API_KEY", ""),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		LLM:                  llmConfig,
		Embedding:            embeddingConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
