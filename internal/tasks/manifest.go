package tasks

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/museekly/internal/shared"
)

// ManifestFile is the name of the summary written into a batch output directory.
const ManifestFile = "batch_manifest.json"

// BatchManifest is the JSON summary of a batch run.
type BatchManifest struct {
	CreatedAt time.Time       `json:"created_at"`
	Source    string          `json:"source,omitempty"`
	Format    string          `json:"format"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Results   []ManifestEntry `json:"results"`
}

// ManifestEntry is one query's outcome in a [BatchManifest].
type ManifestEntry struct {
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	File    string `json:"file,omitempty"`
}

// NewBatchManifest summarizes result.
func NewBatchManifest(result *BatchResult, format, source string) BatchManifest {
	m := BatchManifest{
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Format:    format,
		Total:     result.Total,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Results:   make([]ManifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		m.Results = append(m.Results, ManifestEntry{
			Artist:  r.Query.Artist,
			Title:   r.Query.Title,
			Status:  r.Status.String(),
			Message: r.Message,
			File:    r.File,
		})
	}
	return m
}

// WriteBatchManifest writes the manifest for result to path.
func WriteBatchManifest(result *BatchResult, format, source, path string) error {
	data, err := shared.MarshalJSON(NewBatchManifest(result, format, source), true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
