package pipeline

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/abdulachik/trendfeed/internal/trending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocs serves documentation from a map keyed by owner/name.
type fakeDocs struct {
	texts map[string]string
	delay bool
}

func (f *fakeDocs) Fetch(_ context.Context, owner, name string) (string, bool) {
	if f.delay {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
	}
	text, ok := f.texts[owner+"/"+name]
	return text, ok
}

// fakeSummarizer echoes a fixed summary and records its inputs.
type fakeSummarizer struct {
	mu      sync.Mutex
	summary string
	inputs  []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, text)
	return f.summary
}

func TestEnricher_Enrich(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed title is omitted, valid item enriched", func(t *testing.T) {
		// Scenario from the feed contract: absent READMEs, fixed summary.
		items := []trending.Item{
			{Title: "a/b", Description: "foo", Stars: "10", AddStars: "2", Forks: "1"},
			{Title: "bad", Description: "x", Stars: "5", AddStars: "0", Forks: "0"},
		}

		e := NewEnricher(&fakeDocs{}, &fakeSummarizer{summary: "要約"})
		got := e.Enrich(ctx, items)

		require.Len(t, got, 1)
		assert.Equal(t, "a/b", got[0].Title)
		assert.Equal(t, "要約", got[0].Summary)
	})

	t.Run("source fields survive verbatim", func(t *testing.T) {
		item := trending.Item{
			Title:         "owner/repo",
			URL:           "https://github.com/owner/repo",
			Description:   "desc",
			Language:      "Go",
			LanguageColor: "#00ADD8",
			Stars:         "1,234",
			Forks:         "56",
			AddStars:      "78",
			Contributors:  []trending.Contributor{{Name: "owner"}},
		}

		e := NewEnricher(&fakeDocs{}, &fakeSummarizer{summary: "要約"})
		got := e.Enrich(ctx, []trending.Item{item})

		require.Len(t, got, 1)
		want := snapshot.Item{
			Title:         item.Title,
			URL:           item.URL,
			Description:   item.Description,
			Summary:       "要約",
			Language:      item.Language,
			LanguageColor: item.LanguageColor,
			Stars:         item.Stars,
			Forks:         item.Forks,
			AddStars:      item.AddStars,
			Contributors:  item.Contributors,
		}
		assert.Equal(t, want, got[0])
	})

	t.Run("output order matches input order under concurrency", func(t *testing.T) {
		var items []trending.Item
		for _, title := range []string{"a/a", "b/b", "c/c", "d/d", "e/e", "f/f", "g/g", "h/h"} {
			items = append(items, trending.Item{Title: title, Description: title})
		}

		e := NewEnricher(&fakeDocs{delay: true}, &fakeSummarizer{summary: "要約"})
		got := e.Enrich(ctx, items)

		require.Len(t, got, len(items))
		for i, item := range items {
			assert.Equal(t, item.Title, got[i].Title)
		}
	})

	t.Run("output never longer than input", func(t *testing.T) {
		items := []trending.Item{
			{Title: "a/a"}, {Title: "nodash"}, {Title: "b/b"}, {Title: ""},
		}

		e := NewEnricher(&fakeDocs{}, &fakeSummarizer{summary: "要約"})
		got := e.Enrich(ctx, items)

		assert.LessOrEqual(t, len(got), len(items))
		require.Len(t, got, 2)
		assert.Equal(t, "a/a", got[0].Title)
		assert.Equal(t, "b/b", got[1].Title)
	})

	t.Run("README text feeds the summarizer", func(t *testing.T) {
		docs := &fakeDocs{texts: map[string]string{"a/b": "# readme text"}}
		summ := &fakeSummarizer{summary: "要約"}

		e := NewEnricher(docs, summ)
		e.Enrich(ctx, []trending.Item{{Title: "a/b", Description: "fallback"}})

		require.Len(t, summ.inputs, 1)
		assert.Equal(t, "# readme text", summ.inputs[0])
	})

	t.Run("description is the fallback when README is absent", func(t *testing.T) {
		summ := &fakeSummarizer{summary: "要約"}

		e := NewEnricher(&fakeDocs{}, summ)
		e.Enrich(ctx, []trending.Item{{Title: "a/b", Description: "short description"}})

		require.Len(t, summ.inputs, 1)
		assert.Equal(t, "short description", summ.inputs[0])
	})

	t.Run("absent README and empty description yield empty input", func(t *testing.T) {
		summ := &fakeSummarizer{summary: "説明なし"}

		e := NewEnricher(&fakeDocs{}, summ)
		got := e.Enrich(ctx, []trending.Item{{Title: "a/b"}})

		require.Len(t, summ.inputs, 1)
		assert.Equal(t, "", summ.inputs[0])
		require.Len(t, got, 1)
		assert.Equal(t, "説明なし", got[0].Summary)
	})

	t.Run("deterministic summarizer makes enrich idempotent", func(t *testing.T) {
		items := []trending.Item{
			{Title: "a/a", Description: "one"},
			{Title: "b/b", Description: "two"},
			{Title: "broken"},
		}

		e := NewEnricher(&fakeDocs{texts: map[string]string{"a/a": "readme"}}, &fakeSummarizer{summary: "要約"})
		first := e.Enrich(ctx, items)
		second := e.Enrich(ctx, items)

		assert.Equal(t, first, second)
	})
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		title     string
		wantOwner string
		wantName  string
		wantOK    bool
	}{
		{title: "owner/repo", wantOwner: "owner", wantName: "repo", wantOK: true},
		{title: "owner/repo/extra", wantOwner: "owner", wantName: "repo/extra", wantOK: true},
		{title: "noslash", wantOK: false},
		{title: "/repo", wantOK: false},
		{title: "owner/", wantOK: false},
		{title: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			owner, name, ok := splitTitle(tt.title)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
