package publisher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdulachik/trendfeed/internal/snapshot"
)

// DataFileName is the structured output artifact written per run.
const DataFileName = "data.json"

// WriteJSON persists the snapshot as <dir>/data.json in its canonical form.
// Downstream consumers depend on this artifact, so a failure here is fatal
// to the run.
func WriteJSON(dir string, snap *snapshot.Snapshot) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, DataFileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := snap.Encode(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
