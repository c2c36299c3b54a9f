// Package gemini implements embedding and answer synthesis using Google
// Gemini.
package gemini

import (
	"context"

	"github.com/ragdex/ragdex"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used for both documents and
// queries.
const DefaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements ragdex.Embedder at compile time.
var _ ragdex.Embedder = (*Embedder)(nil)

// Embedder implements ragdex.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects the default.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns one vector per text, in input order. The input type maps
// onto Gemini task types so documents and queries are embedded
// asymmetrically.
func (e *Embedder) Embed(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dim := int32(ragdex.EmbeddingDim)
	config := &genai.EmbedContentConfig{
		TaskType:             taskType(input),
		OutputDimensionality: &dim,
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, ragdex.Errorf(ragdex.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(result), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}

// Model identifies the embedding model for cache keying.
func (e *Embedder) Model() string {
	return e.model
}

// taskType maps the store-facing input type onto Gemini task types.
func taskType(input ragdex.InputType) string {
	if input == ragdex.InputQuery {
		return "RETRIEVAL_QUERY"
	}
	return "RETRIEVAL_DOCUMENT"
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
