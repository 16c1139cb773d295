package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/trendfeed.db", cfg.DatabasePath)
		assert.Equal(t, "ollama", cfg.SummaryBackend)
		assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
		assert.Equal(t, "public", cfg.OutputDir)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, 24*time.Hour, cfg.RunInterval)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Empty(t, cfg.DiscordWebhookURL)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("SUMMARY_BACKEND", "claude")
		os.Setenv("ANTHROPIC_API_KEY", "sk-test")
		os.Setenv("DISCORD_WEBHOOK_URL", "https://discord.example/hook")
		os.Setenv("RUN_INTERVAL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, "claude", cfg.SummaryBackend)
		assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
		assert.Equal(t, "https://discord.example/hook", cfg.DiscordWebhookURL)
		assert.Equal(t, time.Hour, cfg.RunInterval)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("RUN_INTERVAL", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RUN_INTERVAL")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})
}

func TestConfig_ValidateForRun(t *testing.T) {
	t.Run("valid ollama", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:   "test.db",
			SummaryBackend: "ollama",
			OllamaHost:     "http://localhost:11434",
			OllamaModel:    "gemma3",
		}
		assert.NoError(t, cfg.ValidateForRun())
	})

	t.Run("missing ollama model is startup-fatal", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:   "test.db",
			SummaryBackend: "ollama",
			OllamaHost:     "http://localhost:11434",
		}
		err := cfg.ValidateForRun()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "OLLAMA_MODEL")
	})

	t.Run("valid claude", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:    "test.db",
			SummaryBackend:  "claude",
			AnthropicAPIKey: "sk-test",
		}
		assert.NoError(t, cfg.ValidateForRun())
	})

	t.Run("missing api key for claude", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:   "test.db",
			SummaryBackend: "claude",
		}
		err := cfg.ValidateForRun()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:   "test.db",
			SummaryBackend: "gpt",
		}
		err := cfg.ValidateForRun()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SUMMARY_BACKEND")
	})
}

func TestConfig_ValidateForServe(t *testing.T) {
	valid := Config{
		DatabasePath:   "test.db",
		SummaryBackend: "ollama",
		OllamaHost:     "http://localhost:11434",
		OllamaModel:    "gemma3",
		ListenAddr:     ":8080",
		RunInterval:    24 * time.Hour,
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid
		assert.NoError(t, cfg.ValidateForServe())
	})

	t.Run("missing listen addr", func(t *testing.T) {
		cfg := valid
		cfg.ListenAddr = ""
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LISTEN_ADDR")
	})

	t.Run("non-positive interval", func(t *testing.T) {
		cfg := valid
		cfg.RunInterval = 0
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RUN_INTERVAL")
	})
}

func TestNormalizeOllamaHost(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "http://localhost:11434"},
		{name: "bind address", in: "0.0.0.0", want: "http://localhost:11434"},
		{name: "bind address with port", in: "0.0.0.0:11434", want: "http://localhost:11434"},
		{name: "missing scheme", in: "myhost:11434", want: "http://myhost:11434"},
		{name: "already a URL", in: "http://myhost:11434", want: "http://myhost:11434"},
		{name: "https URL", in: "https://ollama.example.com", want: "https://ollama.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeOllamaHost(tt.in))
		})
	}
}
