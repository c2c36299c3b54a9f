package ragdex

import (
	"context"
	"time"
)

// Payload is the stored point payload schema. The vector store owns the
// durable copy of a chunk once upserted; these fields are everything
// retrieval needs to assemble a result without consulting other storage.
type Payload struct {
	ChunkID        string         `json:"chunk_id"`
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	ChunkIndex     int            `json:"chunk_index"`
	TotalChunks    int            `json:"total_chunks"`
	WordCount      int            `json:"word_count"`
	TokenCount     int            `json:"token_count"`
	CreatedAt      string         `json:"created_at"`
	SourceMetadata map[string]any `json:"source_metadata,omitempty"`
	ContentHash    string         `json:"content_hash"`
}

// PayloadFromChunk builds the stored payload for a chunk, including a
// freshly computed content hash for duplicate detection.
func PayloadFromChunk(chunk *Chunk) Payload {
	return Payload{
		ChunkID:        chunk.ID,
		URL:            chunk.URL,
		Title:          chunk.Title,
		Content:        chunk.Content,
		ChunkIndex:     chunk.ChunkIndex,
		TotalChunks:    chunk.TotalChunks,
		WordCount:      chunk.WordCount,
		TokenCount:     chunk.TokenCount,
		CreatedAt:      chunk.CreatedAt.Format(time.RFC3339),
		SourceMetadata: chunk.Metadata,
		ContentHash:    ContentHash(chunk.Content),
	}
}

// Point is a stored vector with its payload. The point ID is the chunk ID,
// so upserting the same chunk twice updates rather than duplicates.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// ScoredPoint is a search hit: a stored payload with its similarity score
// (higher = more relevant).
type ScoredPoint struct {
	ID      string
	Score   float32
	Payload Payload
}

// Condition is a single filter condition. Exactly two variants exist:
// ExactMatch and AnyMatch. The closed set removes any ambiguity about how
// scalar versus list filter values are interpreted.
type Condition interface {
	condition()
}

// ExactMatch requires the field to equal the value.
type ExactMatch struct {
	Field string
	Value any
}

func (ExactMatch) condition() {}

// AnyMatch requires the field to equal any one of the values.
type AnyMatch struct {
	Field  string
	Values []string
}

func (AnyMatch) condition() {}

// AndFilter combines conditions; every condition must match.
type AndFilter struct {
	Conditions []Condition
}

// SearchParams configures a similarity search.
type SearchParams struct {
	Vector   []float32
	Filter   *AndFilter // nil means no filtering
	Limit    int
	MinScore float32
}

// VectorStore manages a single collection in a remote vector database.
// Implementations must bound every remote call with a client-side timeout.
type VectorStore interface {
	// EnsureCollection idempotently creates the collection with the fixed
	// vector dimensionality and cosine distance, plus a keyword index on
	// the url payload field. It no-ops if the collection exists.
	EnsureCollection(ctx context.Context) error

	// Upsert stores points keyed by their IDs, updating existing points
	// and inserting new ones.
	Upsert(ctx context.Context, points ...Point) error

	// Search executes a similarity search. Hits arrive sorted by
	// descending score.
	Search(ctx context.Context, params SearchParams) ([]ScoredPoint, error)

	// Scroll returns up to limit points starting at the given offset
	// cursor, with vectors and payloads, plus the next cursor. An empty
	// next cursor means the scroll is exhausted. Pass an empty offset to
	// start from the beginning.
	Scroll(ctx context.Context, limit int, offset string) ([]Point, string, error)

	// Count returns the exact number of points in the collection.
	Count(ctx context.Context) (int, error)
}

// Backup is the on-disk backup document for a collection.
type Backup struct {
	CollectionName  string  `json:"collection_name"`
	TotalPoints     int     `json:"total_points"`
	BackupTimestamp string  `json:"backup_timestamp"`
	Points          []Point `json:"points"`
}
