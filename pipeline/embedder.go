package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ragdex/ragdex"
)

// DefaultBatchSize is the number of texts sent to the embedding service
// per remote call.
const DefaultBatchSize = 10

// BatchEmbedder wraps an Embedder with batching, caching, throttling, and
// retries. Texts already embedded during this run are served from an
// in-memory cache keyed by content hash, model, and input type.
//
// A batch that still fails after retries does not abort the run: its
// uncached texts get empty vectors, which the pipeline counts as failed
// chunks.
type BatchEmbedder struct {
	Embedder  ragdex.Embedder
	BatchSize int
	Retry     RetryPolicy
	Throttle  *Throttle
	Logger    *slog.Logger

	cache map[string][]float32
}

// NewBatchEmbedder returns a BatchEmbedder with default batch size, retry
// policy, and no throttling.
func NewBatchEmbedder(embedder ragdex.Embedder) *BatchEmbedder {
	return &BatchEmbedder{
		Embedder:  embedder,
		BatchSize: DefaultBatchSize,
		Retry:     DefaultRetryPolicy(),
		cache:     make(map[string][]float32),
	}
}

// Embed returns one vector per text in input order. Cached texts are never
// re-sent. Returns an error only on context cancellation; remote failures
// degrade to empty vectors.
func (e *BatchEmbedder) Embed(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if e.cache == nil {
		e.cache = make(map[string][]float32)
	}

	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		if err := e.embedBatch(ctx, texts[start:end], out[start:end], input); err != nil {
			return nil, err
		}
	}

	for i, vec := range out {
		if len(vec) > 0 && len(vec) != ragdex.EmbeddingDim {
			e.logger().Warn("unexpected embedding dimension",
				"index", i,
				"dim", len(vec),
				"want", ragdex.EmbeddingDim,
			)
		}
	}
	return out, nil
}

func (e *BatchEmbedder) embedBatch(ctx context.Context, texts []string, out [][]float32, input ragdex.InputType) error {
	// Resolve cache hits first so the remote call carries only new texts.
	var uncached []string
	var uncachedIdx []int
	for i, text := range texts {
		if vec, ok := e.cache[e.cacheKey(text, input)]; ok {
			out[i] = vec
			continue
		}
		uncached = append(uncached, text)
		uncachedIdx = append(uncachedIdx, i)
	}
	if len(uncached) == 0 {
		return nil
	}

	var vectors [][]float32
	err := e.Retry.Do(ctx, "embed", func(ctx context.Context) error {
		if e.Throttle != nil {
			if err := e.Throttle.Wait(ctx); err != nil {
				return err
			}
		}
		var embedErr error
		vectors, embedErr = e.Embedder.Embed(ctx, uncached, input)
		if embedErr != nil {
			return embedErr
		}
		if len(vectors) != len(uncached) {
			return ragdex.Errorf(ragdex.EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(uncached))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		e.logger().Error("embedding batch failed, continuing with empty vectors",
			"texts", len(uncached),
			"err", err,
		)
		for _, i := range uncachedIdx {
			out[i] = []float32{}
		}
		return nil
	}

	for j, i := range uncachedIdx {
		out[i] = vectors[j]
		e.cache[e.cacheKey(uncached[j], input)] = vectors[j]
	}
	return nil
}

// CacheSize returns the number of cached vectors.
func (e *BatchEmbedder) CacheSize() int {
	return len(e.cache)
}

func (e *BatchEmbedder) cacheKey(text string, input ragdex.InputType) string {
	return ragdex.ContentHash(text) + "_" + e.Embedder.Model() + "_" + string(input)
}

func (e *BatchEmbedder) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
