package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/mock"
	"github.com/ragdex/ragdex/pipeline"
	"github.com/stretchr/testify/assert"
)

func testChunk(content, url string) *ragdex.Chunk {
	return &ragdex.Chunk{
		ID:          "chunk-1",
		URL:         url,
		Content:     content,
		TotalChunks: 1,
	}
}

func TestDuplicateDetector_IsDuplicate(t *testing.T) {
	t.Parallel()

	t.Run("finds a stored chunk with same hash and URL", func(t *testing.T) {
		t.Parallel()

		chunk := testChunk("identical content", "https://example.com/page")
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				return []ragdex.Point{{
					ID: "stored-1",
					Payload: ragdex.Payload{
						URL:         "https://example.com/page",
						ContentHash: ragdex.ContentHash("identical content"),
					},
				}}, "", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		assert.True(t, d.IsDuplicate(context.Background(), chunk))
	})

	t.Run("same content from a different URL is not a duplicate", func(t *testing.T) {
		t.Parallel()

		chunk := testChunk("identical content", "https://example.com/other")
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				return []ragdex.Point{{
					Payload: ragdex.Payload{
						URL:         "https://example.com/page",
						ContentHash: ragdex.ContentHash("identical content"),
					},
				}}, "", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		assert.False(t, d.IsDuplicate(context.Background(), chunk))
	})

	t.Run("fails open when the store errors", func(t *testing.T) {
		t.Parallel()

		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				return nil, "", errors.New("store down")
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		assert.False(t, d.IsDuplicate(context.Background(), testChunk("content", "https://example.com")))
	})

	t.Run("remembered chunks never suppress new ones", func(t *testing.T) {
		t.Parallel()

		// The store is empty, so no chunk is a duplicate no matter how
		// many keys the run-local seen set holds.
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				return nil, "", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		for i := 0; i < 10000; i++ {
			d.Remember(testChunk(fmt.Sprintf("remembered content %d", i), "https://example.com/page"))
		}

		for i := 0; i < 200; i++ {
			chunk := testChunk(fmt.Sprintf("fresh content %d", i), "https://example.com/fresh")
			assert.False(t, d.IsDuplicate(context.Background(), chunk), "fresh chunk %d", i)
		}
	})

	t.Run("positive answers are always confirmed against the store", func(t *testing.T) {
		t.Parallel()

		chunk := testChunk("stored once", "https://example.com/page")
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				return []ragdex.Point{{
					Payload: ragdex.Payload{
						URL:         "https://example.com/page",
						ContentHash: ragdex.ContentHash("stored once"),
					},
				}}, "", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		d.Remember(chunk)
		assert.True(t, d.IsDuplicate(context.Background(), chunk))
	})

	t.Run("exhausted scan lets later misses skip the store", func(t *testing.T) {
		t.Parallel()

		scrolls := 0
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				scrolls++
				return []ragdex.Point{{
					Payload: ragdex.Payload{
						URL:         "https://example.com/page",
						ContentHash: ragdex.ContentHash("stored content"),
					},
				}}, "", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)

		assert.False(t, d.IsDuplicate(context.Background(), testChunk("first check", "https://example.com/a")))
		assert.Equal(t, 1, scrolls)

		// The first scan covered the whole collection, so an unseen key
		// is proven absent without another scroll.
		assert.False(t, d.IsDuplicate(context.Background(), testChunk("second check", "https://example.com/b")))
		assert.Equal(t, 1, scrolls)

		// A key the scan observed still goes back to the store.
		assert.True(t, d.IsDuplicate(context.Background(), testChunk("stored content", "https://example.com/page")))
		assert.Equal(t, 2, scrolls)
	})

	t.Run("scan respects the limit", func(t *testing.T) {
		t.Parallel()

		scanned := 0
		store := &mock.VectorStore{
			ScrollFn: func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
				points := make([]ragdex.Point, limit)
				scanned += limit
				return points, "more", nil
			},
		}

		d := pipeline.NewDuplicateDetector(store)
		d.ScanLimit = 250

		d.IsDuplicate(context.Background(), testChunk("content", "https://example.com"))
		assert.Equal(t, 250, scanned)
	})
}
