package ragdex

import "time"

// Chunk represents a bounded slice of a source document's text, sized for
// embedding and retrieval. Chunks are created during chunking, enriched
// with a quality score, persisted once (or skipped as a duplicate), and
// immutable thereafter.
type Chunk struct {
	ID          string         `json:"id"`
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	ChunkIndex  int            `json:"chunkIndex"`
	TotalChunks int            `json:"totalChunks"`
	CreatedAt   time.Time      `json:"createdAt"`
	WordCount   int            `json:"wordCount"`
	TokenCount  int            `json:"tokenCount"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.URL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if c.TotalChunks > 0 && (c.ChunkIndex < 0 || c.ChunkIndex >= c.TotalChunks) {
		return Errorf(EINVALID, "chunk index %d out of range for %d chunks", c.ChunkIndex, c.TotalChunks)
	}
	return nil
}
