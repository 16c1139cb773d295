package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// maxInputLen bounds the README text submitted to a backend. Inputs
	// beyond this are truncated before the prompt is built.
	maxInputLen = 10000

	promptTemplate = "以下のREADMEの内容を日本語で短く要約せよ。100文字以内で\n\n%s"

	// PlaceholderNoDescription is returned when there is nothing to summarize.
	PlaceholderNoDescription = "説明なし"

	// PlaceholderFailed is returned when the backend fails or answers empty.
	PlaceholderFailed = "要約失敗"
)

// Backend generates text from a prompt. Implementations wrap a local model
// server or a hosted API; the summarizer does not care which.
type Backend interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces short Japanese summaries of README text.
type Summarizer struct {
	backend Backend
}

// New creates a summarizer on top of the given backend.
func New(backend Backend) *Summarizer {
	return &Summarizer{backend: backend}
}

// Summarize returns a summary of text. It never fails the caller: backend
// errors and empty responses degrade to a fixed placeholder.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if text == "" {
		return PlaceholderNoDescription
	}

	if len(text) > maxInputLen {
		text = text[:maxInputLen]
	}

	prompt := fmt.Sprintf(promptTemplate, text)

	response, err := s.backend.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("summarization failed", "error", err)
		return PlaceholderFailed
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return PlaceholderFailed
	}

	return response
}
