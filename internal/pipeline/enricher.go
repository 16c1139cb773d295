package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/abdulachik/trendfeed/internal/trending"
)

// DocFetcher retrieves a repository's primary documentation text.
type DocFetcher interface {
	// Fetch returns the documentation of owner/name, or ok=false when no
	// candidate location yields one.
	Fetch(ctx context.Context, owner, name string) (text string, ok bool)
}

// Summarizer produces a summary for documentation text. Implementations
// never fail; degraded results are placeholder strings.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Enricher attaches a generated summary to each trending item.
type Enricher struct {
	docs       DocFetcher
	summarizer Summarizer
}

// NewEnricher creates a new enricher.
func NewEnricher(docs DocFetcher, summarizer Summarizer) *Enricher {
	return &Enricher{
		docs:       docs,
		summarizer: summarizer,
	}
}

// Enrich summarizes every item. Items run concurrently since each needs two
// network round trips, but results land in an index-addressed slice so the
// output keeps the input order regardless of completion order. An item whose
// title is not an owner/name pair is logged and omitted; every other item
// survives, worst case with a placeholder summary.
func (e *Enricher) Enrich(ctx context.Context, items []trending.Item) []snapshot.Item {
	results := make([]*snapshot.Item, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		owner, name, ok := splitTitle(item.Title)
		if !ok {
			slog.Warn("skipping item with invalid title", "title", item.Title)
			continue
		}

		wg.Add(1)
		go func(idx int, item trending.Item, owner, name string) {
			defer wg.Done()
			results[idx] = e.enrichOne(ctx, item, owner, name)
		}(i, item, owner, name)
	}
	wg.Wait()

	enriched := make([]snapshot.Item, 0, len(items))
	for _, r := range results {
		if r != nil {
			enriched = append(enriched, *r)
		}
	}

	return enriched
}

// enrichOne fetches documentation and summarizes a single item. The item's
// short description stands in when no README is reachable.
func (e *Enricher) enrichOne(ctx context.Context, item trending.Item, owner, name string) *snapshot.Item {
	text, ok := e.docs.Fetch(ctx, owner, name)
	if !ok {
		slog.Debug("README not found, falling back to description", "repo", item.Title)
		text = item.Description
	}

	summary := e.summarizer.Summarize(ctx, text)

	return &snapshot.Item{
		Title:         item.Title,
		URL:           item.URL,
		Description:   item.Description,
		Summary:       summary,
		Language:      item.Language,
		LanguageColor: item.LanguageColor,
		Stars:         item.Stars,
		Forks:         item.Forks,
		AddStars:      item.AddStars,
		Contributors:  item.Contributors,
	}
}

// splitTitle splits an "owner/name" identifier.
func splitTitle(title string) (owner, name string, ok bool) {
	parts := strings.SplitN(title, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
