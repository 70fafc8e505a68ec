// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	Environment  string

	// Base URL of the external auth service that publishes the JWKS used to
	// verify bearer tokens.
	AuthBaseURL string

	// Reasoning component configuration. The API key is deliberately not
	// required at startup: a missing key surfaces as a configuration error
	// on the first chat turn, task CRUD keeps working without it.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	AgentModel    string

	// Tool worker subprocess launch contract.
	WorkerCommand string
	WorkerDir     string

	MaxToolRounds      int
	ToolTimeoutSeconds int
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "todochat.db"),
		Environment:        env,
		AuthBaseURL:        getEnv("AUTH_BASE_URL", "http://localhost:3000"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		AgentModel:         getEnv("AGENT_MODEL", "gpt-4o-mini"),
		WorkerCommand:      getEnv("TOOL_WORKER_COMMAND", "./toolworker"),
		WorkerDir:          getEnv("TOOL_WORKER_DIR", "."),
		MaxToolRounds:      getEnvAsInt("AGENT_MAX_TOOL_ROUNDS", 10),
		ToolTimeoutSeconds: getEnvAsInt("TOOL_TIMEOUT_SECONDS", 30),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.AuthBaseURL == "" {
			missing = append(missing, "AUTH_BASE_URL")
		}
		if cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
