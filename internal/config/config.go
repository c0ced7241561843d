// Package config reads service configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port                string
	GoogleCloudProject  string
	GoogleCloudLocation string
	Model               string
	// OracleTimeout bounds each individual LLM request.
	OracleTimeout time.Duration
	// BatchConcurrency caps how many documents are scored at once.
	BatchConcurrency     int
	GmailCredentialsPath string
	GmailTokenPath       string
}

// Load reads configuration from environment variables, applying defaults for
// everything optional. GOOGLE_CLOUD_PROJECT is the only required value and is
// validated where the client is constructed, not here.
func Load() *Config {
	return &Config{
		Port:                 envOr("PORT", "8080"),
		GoogleCloudProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation:  envOr("GOOGLE_CLOUD_LOCATION", "us-central1"),
		Model:                envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		OracleTimeout:        durationOr("ORACLE_TIMEOUT", 90*time.Second),
		BatchConcurrency:     intOr("BATCH_CONCURRENCY", 0),
		GmailCredentialsPath: envOr("GMAIL_CREDENTIALS_PATH", "credentials.json"),
		GmailTokenPath:       envOr("GMAIL_TOKEN_PATH", "token.json"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
