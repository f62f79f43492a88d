// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults used when the environment leaves a knob unset.
const (
	DefaultPort        = "8080"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultUserID      = "local"
	DefaultQueueSize   = 100
	DefaultWorkers     = 5
)

// Config holds everything the binaries need to wire the service together.
type Config struct {
	// Port is the HTTP listen port for cmd/api.
	Port string

	// ProjectID is the Google Cloud project hosting Firestore.
	ProjectID string

	// Bucket is the GCS bucket statement uploads are staged in. Empty
	// disables statement import.
	Bucket string

	// GeminiModel is the model name used by all LLM collaborators.
	GeminiModel string

	// DefaultUserID is used when a request carries no X-User-ID header.
	// Authentication is an external concern; this service only scopes data.
	DefaultUserID string

	// QueueSize and Workers size the in-memory import job queue.
	QueueSize int
	Workers   int

	// LogLevel is a zerolog level name.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", DefaultPort),
		ProjectID:     os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Bucket:        os.Getenv("GCS_BUCKET"),
		GeminiModel:   getEnv("GEMINI_MODEL", DefaultGeminiModel),
		DefaultUserID: getEnv("DEFAULT_USER_ID", DefaultUserID),
		QueueSize:     getEnvInt("IMPORT_QUEUE_SIZE", DefaultQueueSize),
		Workers:       getEnvInt("IMPORT_WORKERS", DefaultWorkers),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
