package ragdex_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ragdex/ragdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker() *ragdex.Chunker {
	c := ragdex.NewChunker()
	n := 0
	c.NewID = func() string {
		n++
		return fmt.Sprintf("chunk-%d", n)
	}
	c.Now = func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestChunker_Chunk(t *testing.T) {
	t.Parallel()

	t.Run("short document yields a single chunk", func(t *testing.T) {
		t.Parallel()

		content := "The quick brown fox jumps over the lazy dog near the quiet river bank."
		c := newTestChunker()

		chunks := c.Chunk(content, "Foxes", "https://example.com/foxes")

		require.Len(t, chunks, 1)
		assert.Equal(t, content, chunks[0].Content)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
		assert.Equal(t, 1, chunks[0].TotalChunks)
		assert.Equal(t, "Foxes", chunks[0].Title)
		assert.Equal(t, "https://example.com/foxes", chunks[0].URL)
		assert.Equal(t, 14, chunks[0].WordCount)
	})

	t.Run("boundaries are deterministic", func(t *testing.T) {
		t.Parallel()

		content := strings.Repeat("The pipeline processes pages in sequence. ", 40)

		first := newTestChunker().Chunk(content, "Title", "https://example.com")
		second := newTestChunker().Chunk(content, "Title", "https://example.com")

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Content, second[i].Content)
		}
	})

	t.Run("long content without sentence boundaries splits into multiple chunks", func(t *testing.T) {
		t.Parallel()

		content := strings.TrimSpace(strings.Repeat("word ", 500))
		c := newTestChunker()
		c.ChunkSize = 100

		chunks := c.Chunk(content, "Words", "https://example.com/words")

		require.Greater(t, len(chunks), 1)
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.Equal(t, len(chunks), chunk.TotalChunks)
			assert.LessOrEqual(t, chunk.TokenCount, 100)
			require.NoError(t, chunk.Validate())
		}

		// No content is lost across boundaries.
		var joined []string
		for _, chunk := range chunks {
			joined = append(joined, chunk.Content)
		}
		assert.Equal(t, content, strings.Join(joined, " "))
	})

	t.Run("low-quality content yields zero chunks", func(t *testing.T) {
		t.Parallel()

		c := newTestChunker()
		chunks := c.Chunk("1 2 3 4", "Numbers", "https://example.com/numbers")
		assert.Empty(t, chunks)
	})

	t.Run("empty content yields zero chunks", func(t *testing.T) {
		t.Parallel()

		c := newTestChunker()
		assert.Empty(t, c.Chunk("", "Empty", "https://example.com/empty"))
	})

	t.Run("chunk metadata includes quality score", func(t *testing.T) {
		t.Parallel()

		content := "The quick brown fox jumps over the lazy dog near the quiet river bank."
		c := newTestChunker()

		chunks := c.Chunk(content, "Foxes", "https://example.com/foxes")

		require.Len(t, chunks, 1)
		score, ok := chunks[0].Metadata["quality_score"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, score, ragdex.DefaultMinQuality)
	})

	t.Run("chunk IDs are unique within a document", func(t *testing.T) {
		t.Parallel()

		content := strings.Repeat("Every sentence here is reasonably long and complete. ", 60)
		c := newTestChunker()
		c.ChunkSize = 50

		chunks := c.Chunk(content, "Title", "https://example.com")
		require.Greater(t, len(chunks), 1)

		seen := make(map[string]bool)
		for _, chunk := range chunks {
			assert.False(t, seen[chunk.ID])
			seen[chunk.ID] = true
		}
	})
}

func TestChunk_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *ragdex.Chunk {
		return &ragdex.Chunk{
			ID:          "chunk-1",
			URL:         "https://example.com/docs",
			Content:     "some content",
			ChunkIndex:  0,
			TotalChunks: 1,
		}
	}

	t.Run("valid chunk passes", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, valid().Validate())
	})

	t.Run("missing fields fail with EINVALID", func(t *testing.T) {
		t.Parallel()

		chunk := valid()
		chunk.Content = ""
		err := chunk.Validate()
		assert.Equal(t, ragdex.EINVALID, ragdex.ErrorCode(err))
	})

	t.Run("index out of range fails", func(t *testing.T) {
		t.Parallel()

		chunk := valid()
		chunk.ChunkIndex = 1
		err := chunk.Validate()
		assert.Equal(t, ragdex.EINVALID, ragdex.ErrorCode(err))
	})
}
