package ragdex

import (
	"context"
	"maps"
)

// ChangeTracker records the last-seen content hash for each processed URL
// so unchanged pages can be skipped on re-ingestion. It is owned by a
// single pipeline run and is not safe for concurrent use; the pipeline is
// sequential by design.
type ChangeTracker struct {
	hashes map[string]string
}

// NewChangeTracker returns an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{hashes: make(map[string]string)}
}

// ShouldProcess reports whether the URL needs reprocessing: true when the
// URL has not been seen or its content hash differs from the prior one.
func (t *ChangeTracker) ShouldProcess(url, contentHash string) bool {
	prior, ok := t.hashes[url]
	return !ok || prior != contentHash
}

// MarkProcessed records the content hash for a URL. Call only after the
// URL's chunks have been fully embedded and stored.
func (t *ChangeTracker) MarkProcessed(url, contentHash string) {
	t.hashes[url] = contentHash
}

// Len returns the number of tracked URLs.
func (t *ChangeTracker) Len() int {
	return len(t.hashes)
}

// Snapshot returns a copy of the URL-to-hash mapping for persistence.
func (t *ChangeTracker) Snapshot() map[string]string {
	return maps.Clone(t.hashes)
}

// Restore replaces the tracker state with the given mapping.
func (t *ChangeTracker) Restore(hashes map[string]string) {
	t.hashes = make(map[string]string, len(hashes))
	maps.Copy(t.hashes, hashes)
}

// TrackerStore persists the processed-URL mapping across runs.
type TrackerStore interface {
	// Load returns the persisted URL-to-hash mapping.
	Load(ctx context.Context) (map[string]string, error)

	// Save replaces the persisted mapping with the given one.
	Save(ctx context.Context, hashes map[string]string) error
}
