package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Sources
	TrendingURL   string
	ReadmeBaseURL string

	// Summarization backend: "ollama" or "claude"
	SummaryBackend string

	// Ollama
	OllamaHost  string
	OllamaModel string

	// Anthropic API
	AnthropicAPIKey string
	ClaudeModel     string

	// Discord (optional; empty disables notifications)
	DiscordWebhookURL string

	// Publishing
	OutputDir string
	SiteURL   string

	// Serve mode
	ListenAddr  string
	RunInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:      getEnv("DATABASE_PATH", "data/trendfeed.db"),
		TrendingURL:       getEnv("TRENDING_URL", ""),
		ReadmeBaseURL:     getEnv("README_BASE_URL", ""),
		SummaryBackend:    getEnv("SUMMARY_BACKEND", "ollama"),
		OllamaHost:        normalizeOllamaHost(getEnv("OLLAMA_HOST", "http://localhost:11434")),
		OllamaModel:       getEnv("OLLAMA_MODEL", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:       getEnv("CLAUDE_MODEL", ""),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		OutputDir:         getEnv("OUTPUT_DIR", "public"),
		SiteURL:           getEnv("SITE_URL", "https://github-trending-ja.example.com"),
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.RunInterval, err = time.ParseDuration(getEnv("RUN_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_INTERVAL: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForRun checks configuration needed to run the pipeline. A missing
// model is a startup-fatal condition: the process aborts before any network
// work begins.
func (c *Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.SummaryBackend {
	case "ollama", "":
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST is required for the ollama backend")
		}
		if c.OllamaModel == "" {
			return fmt.Errorf("OLLAMA_MODEL is required for the ollama backend")
		}
	case "claude":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude backend")
		}
	default:
		return fmt.Errorf("invalid SUMMARY_BACKEND: %s (must be 'ollama' or 'claude')", c.SummaryBackend)
	}

	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForRun(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	if c.RunInterval <= 0 {
		return fmt.Errorf("RUN_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// normalizeOllamaHost ensures the Ollama host has a proper URL scheme.
// This handles cases where OLLAMA_HOST is set to a bind address like
// "0.0.0.0" (used by the Ollama server) instead of a client URL.
func normalizeOllamaHost(host string) string {
	if host == "" {
		return "http://localhost:11434"
	}

	if host == "0.0.0.0" || host == "0.0.0.0:11434" {
		return "http://localhost:11434"
	}

	if len(host) < 4 || host[:4] != "http" {
		return "http://" + host
	}

	return host
}
