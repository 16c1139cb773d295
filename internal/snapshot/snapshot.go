package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/abdulachik/trendfeed/internal/trending"
)

// Item is a trending repository with its generated summary attached.
// Every field except Summary is copied verbatim from the source item.
type Item struct {
	Title         string                 `json:"title"`
	URL           string                 `json:"url"`
	Description   string                 `json:"description"`
	Summary       string                 `json:"summary"`
	Language      string                 `json:"language,omitempty"`
	LanguageColor string                 `json:"languageColor,omitempty"`
	Stars         string                 `json:"stars"`
	Forks         string                 `json:"forks"`
	AddStars      string                 `json:"addStars"`
	Contributors  []trending.Contributor `json:"contributors"`
}

// Snapshot is one full pipeline run: the enriched list in source-feed order
// plus the generation timestamp. It is the unit of publication; each run
// fully replaces the previous one.
type Snapshot struct {
	Items       []Item    `json:"items"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// New builds a snapshot stamped at the given time, normalized to UTC at
// second precision so the encoded form round-trips exactly.
func New(items []Item, generatedAt time.Time) *Snapshot {
	return &Snapshot{
		Items:       items,
		GeneratedAt: generatedAt.UTC().Truncate(time.Second),
	}
}

// Encode writes the canonical JSON form: stable field names, 2-space
// indentation, HTML escaping disabled so summaries stay readable.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return nil
}

// Decode parses a snapshot previously written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &s, nil
}
