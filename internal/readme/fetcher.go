package readme

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://raw.githubusercontent.com"

// branchCandidates are the conventional default-branch names tried in order.
var branchCandidates = []string{"main", "master"}

// Fetcher retrieves the README of a repository from the raw content host.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
}

// Config holds configuration for the README fetcher.
type Config struct {
	BaseURL string
}

// NewFetcher creates a new README fetcher.
func NewFetcher(cfg Config) *Fetcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
		baseURL: baseURL,
	}
}

// Fetch returns the README text of owner/name, trying each branch candidate
// once. A repository without a reachable README is an expected outcome, so
// exhaustion reports ok=false rather than an error. A failed candidate never
// aborts the remaining ones.
func (f *Fetcher) Fetch(ctx context.Context, owner, name string) (string, bool) {
	for _, branch := range branchCandidates {
		text, err := f.fetchBranch(ctx, owner, name, branch)
		if err != nil {
			slog.Debug("README candidate failed",
				"repo", owner+"/"+name,
				"branch", branch,
				"error", err,
			)
			continue
		}
		return text, true
	}

	return "", false
}

func (f *Fetcher) fetchBranch(ctx context.Context, owner, name, branch string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/README.md", f.baseURL, owner, name, branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}
