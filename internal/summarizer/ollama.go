package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OllamaBackend generates text via a local Ollama server.
type OllamaBackend struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// OllamaConfig holds configuration for the Ollama backend.
type OllamaConfig struct {
	Host  string
	Model string
}

// NewOllamaBackend creates a new Ollama backend. Local models can be slow,
// so the client allows a long wait per generation.
func NewOllamaBackend(cfg OllamaConfig) *OllamaBackend {
	return &OllamaBackend{
		httpClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
		baseURL: cfg.Host,
		model:   cfg.Model,
	}
}

// ollamaRequest is the request body for the generate endpoint.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaResponse is the response from the generate endpoint.
type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt to the local generate endpoint.
func (o *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return ollamaResp.Response, nil
}
