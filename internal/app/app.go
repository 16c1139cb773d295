package app

import (
	"context"
	"fmt"

	"github.com/abdulachik/trendfeed/internal/config"
	"github.com/abdulachik/trendfeed/internal/pipeline"
	"github.com/abdulachik/trendfeed/internal/publisher"
	"github.com/abdulachik/trendfeed/internal/readme"
	"github.com/abdulachik/trendfeed/internal/store"
	"github.com/abdulachik/trendfeed/internal/summarizer"
	"github.com/abdulachik/trendfeed/internal/trending"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Pipeline *pipeline.Pipeline
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := store.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	enricher := pipeline.NewEnricher(
		readme.NewFetcher(readme.Config{BaseURL: cfg.ReadmeBaseURL}),
		summarizer.New(backend),
	)

	p := pipeline.New(pipeline.Config{
		Source:   trending.NewClient(trending.Config{FeedURL: cfg.TrendingURL}),
		Enricher: enricher,
		Store:    st,
		Notifier: publisher.NewDiscordNotifier(publisher.DiscordConfig{
			WebhookURL: cfg.DiscordWebhookURL,
		}),
		OutputDir: cfg.OutputDir,
		SiteURL:   cfg.SiteURL,
	})

	return &App{
		Config:   cfg,
		Store:    st,
		Pipeline: p,
	}, nil
}

// newBackend selects the configured summarization backend.
func newBackend(cfg *config.Config) (summarizer.Backend, error) {
	switch cfg.SummaryBackend {
	case "ollama", "":
		return summarizer.NewOllamaBackend(summarizer.OllamaConfig{
			Host:  cfg.OllamaHost,
			Model: cfg.OllamaModel,
		}), nil
	case "claude":
		return summarizer.NewClaudeBackend(summarizer.ClaudeConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.ClaudeModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown summary backend: %s", cfg.SummaryBackend)
	}
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
