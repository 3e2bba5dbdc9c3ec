package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index int     `json:"index"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	Image string  `json:"image,omitempty"`
	Error string  `json:"error,omitempty"`
}

// WriteManifest writes the sweep's results as a JSON array to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Index: r.Index,
			Alpha: r.Orientation.Alpha,
			Beta:  r.Orientation.Beta,
			Gamma: r.Orientation.Gamma,
			Image: r.Image,
			Error: r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return nil
}
