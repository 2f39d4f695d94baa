// Package config loads runtime settings from the environment and optional .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-analyzer/internal/extraction"
)

// apiKeyVars are checked in order; the first non-empty value wins.
var apiKeyVars = []string{"GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "GOOGLE_API_KEY"}

// Config holds all application configuration
type Config struct {
	Gemini  GeminiConfig
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

// GeminiConfig configures the extraction client.
type GeminiConfig struct {
	APIKey       string
	Model        string
	StrictSchema bool
	Timeout      time.Duration
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// StorageConfig configures GCS reads for the CLI.
type StorageConfig struct {
	CredentialsFile string
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string
}

// Load reads the first .env file found in envFiles (default ".env", "../.env")
// and then builds a Config from the environment. A missing API key is not an
// error here: extraction reports it per call.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", "../.env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			break
		}
	}

	strict, err := getEnvAsBool("STRICT_SCHEMA", true)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvAsDuration("EXTRACTION_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := getEnvAsInt("MAX_UPLOAD_MB", 20)
	if err != nil {
		return nil, err
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_MB must be positive, got %d", maxUploadMB)
	}

	return &Config{
		Gemini: GeminiConfig{
			APIKey:       apiKey(),
			Model:        getEnv("GEMINI_MODEL", extraction.DefaultModelName),
			StrictSchema: strict,
			Timeout:      timeout,
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			MaxUploadBytes: int64(maxUploadMB) << 20,
			ReadTimeout:    30 * time.Second,
			// Extraction of a long statement can take a while.
			WriteTimeout: timeout + 15*time.Second,
		},
		Storage: StorageConfig{
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func apiKey() string {
	for _, name := range apiKeyVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
