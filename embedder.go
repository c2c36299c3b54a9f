package ragdex

import "context"

// EmbeddingDim is the fixed dimensionality of all embedding vectors.
const EmbeddingDim = 1024

// InputType tags what a text is used for when embedding it. Embedding
// models calibrate cosine similarity differently for indexed documents
// and search queries, so ingestion and retrieval must use distinct tags.
type InputType string

// Input types for the embedding service.
const (
	InputDocument InputType = "search_document"
	InputQuery    InputType = "search_query"
)

// Embedder generates fixed-length embedding vectors for texts.
type Embedder interface {
	// Embed returns one EmbeddingDim-length vector per text, in input
	// order. The context controls timeout and cancellation.
	Embed(ctx context.Context, texts []string, input InputType) ([][]float32, error)

	// Model identifies the underlying embedding model. It participates in
	// cache keys, so two Embedders with the same Model must be
	// interchangeable.
	Model() string
}
