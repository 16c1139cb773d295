package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/abdulachik/trendfeed/internal/publisher"
	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/abdulachik/trendfeed/internal/trending"
	"github.com/google/uuid"
)

// ErrRunInProgress is returned when a run is triggered while a previous one
// is still in flight. The new trigger is dropped without side effects.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Source provides the day's trending list.
type Source interface {
	Fetch(ctx context.Context) ([]trending.Item, error)
}

// Store holds the latest published snapshot.
type Store interface {
	Put(ctx context.Context, snap *snapshot.Snapshot) error
}

// Notifier announces a published snapshot to a chat sink.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, snap *snapshot.Snapshot)
}

// Pipeline runs one fetch → enrich → publish cycle.
type Pipeline struct {
	source   Source
	enricher *Enricher
	store    Store
	notifier Notifier

	outputDir string
	siteURL   string

	running atomic.Bool
}

// Config holds pipeline configuration.
type Config struct {
	Source    Source
	Enricher  *Enricher
	Store     Store
	Notifier  Notifier
	OutputDir string
	SiteURL   string
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		source:    cfg.Source,
		enricher:  cfg.Enricher,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		outputDir: cfg.OutputDir,
		siteURL:   cfg.SiteURL,
	}
}

// Run executes one full pipeline cycle and returns the published snapshot.
// Feed fetch, store put and data.json write failures abort the run and leave
// the previously published snapshot in place; RSS and notification failures
// are logged only. Overlapping triggers are rejected with ErrRunInProgress.
func (p *Pipeline) Run(ctx context.Context) (*snapshot.Snapshot, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)

	log := slog.With("run_id", uuid.NewString())

	log.Info("fetching trending repositories")
	items, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	log.Info("fetched trending repositories", "count", len(items))

	enriched := p.enricher.Enrich(ctx, items)
	log.Info("enriched repositories", "count", len(enriched), "skipped", len(items)-len(enriched))

	snap := snapshot.New(enriched, time.Now())

	if err := p.store.Put(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	if err := publisher.WriteJSON(p.outputDir, snap); err != nil {
		return nil, fmt.Errorf("write structured output: %w", err)
	}
	log.Info("wrote structured output", "dir", p.outputDir, "count", len(snap.Items))

	// Feed generation is best effort: the stored snapshot stays published
	// even when the feed artifact cannot be written.
	if err := publisher.WriteRSS(p.outputDir, snap, p.siteURL); err != nil {
		log.Warn("failed to write RSS feed", "error", err)
	} else {
		log.Info("wrote RSS feed", "dir", p.outputDir)
	}

	if p.notifier != nil && p.notifier.Enabled() {
		p.notifier.Notify(ctx, snap)
	}

	return snap, nil
}
