package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abdulachik/trendfeed/internal/snapshot"
)

const (
	// defaultEmbedColor is Discord's blurple, used when a repository has
	// no language color or the color does not parse.
	defaultEmbedColor = 0x7289DA

	// defaultSendPause spaces out consecutive webhook sends to respect
	// Discord's rate limits.
	defaultSendPause = 500 * time.Millisecond
)

// DiscordNotifier posts one message per snapshot item to a Discord webhook.
type DiscordNotifier struct {
	httpClient *http.Client
	webhookURL string
	pause      time.Duration
}

// DiscordConfig holds configuration for the Discord notifier.
type DiscordConfig struct {
	WebhookURL string
	Pause      time.Duration
}

// NewDiscordNotifier creates a new Discord webhook notifier. An empty
// webhook URL yields a disabled notifier.
func NewDiscordNotifier(cfg DiscordConfig) *DiscordNotifier {
	pause := cfg.Pause
	if pause <= 0 {
		pause = defaultSendPause
	}

	return &DiscordNotifier{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		webhookURL: cfg.WebhookURL,
		pause:      pause,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *DiscordNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// webhookPayload is the body of one webhook request.
type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Notify sends one message per item so each notification stays focused on a
// single repository. Individual send failures are logged and skipped; the
// remaining sends always proceed.
func (n *DiscordNotifier) Notify(ctx context.Context, snap *snapshot.Snapshot) {
	if !n.Enabled() {
		return
	}

	slog.Info("sending Discord notifications", "count", len(snap.Items))

	for i, item := range snap.Items {
		if err := n.post(ctx, buildPayload(item)); err != nil {
			slog.Warn("failed to send Discord notification",
				"repo", item.Title,
				"index", i+1,
				"total", len(snap.Items),
				"error", err,
			)
			continue
		}

		if i < len(snap.Items)-1 {
			time.Sleep(n.pause)
		}
	}

	slog.Info("Discord notifications completed")
}

// buildPayload converts a snapshot item into a single-embed message.
func buildPayload(item snapshot.Item) webhookPayload {
	lang := item.Language
	if lang == "" {
		lang = unknownLanguage
	}

	return webhookPayload{
		Embeds: []embed{{
			Title:       item.Title,
			URL:         item.URL,
			Description: item.Summary,
			Color:       embedColor(item.LanguageColor),
			Fields: []embedField{
				{Name: "言語", Value: lang, Inline: true},
				{Name: "スター", Value: fmt.Sprintf("%s (+%s)", item.Stars, item.AddStars), Inline: true},
			},
		}},
	}
}

func (n *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}

// embedColor converts an "#RRGGBB" language color into a Discord color int.
func embedColor(htmlColor string) int {
	hex := strings.TrimPrefix(htmlColor, "#")
	if hex == "" {
		return defaultEmbedColor
	}

	color, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return defaultEmbedColor
	}

	return int(color)
}
