package ragdex

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chunking defaults, in approximate tokens.
const (
	DefaultChunkSize    = 250
	DefaultChunkOverlap = 20
)

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]+\s+`)

// Chunker splits document text into bounded, quality-filtered chunks.
// Boundaries are deterministic given the same configuration: content is
// split into sentence-like units, which are accumulated greedily until the
// next sentence would push the chunk past ChunkSize tokens.
//
// Overlap is accepted for configuration compatibility but performs no
// resampling of trailing content: the sentence that overflows a chunk
// simply starts the next one.
type Chunker struct {
	// ChunkSize is the maximum chunk size in approximate tokens.
	ChunkSize int

	// Overlap is the configured overlap in tokens. See the type comment.
	Overlap int

	// MinQuality is the minimum QualityScore a chunk must reach to be
	// emitted. Chunks below it are logged and discarded.
	MinQuality float64

	Logger *slog.Logger

	// Now and NewID are injectable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// NewChunker returns a Chunker with default configuration.
func NewChunker() *Chunker {
	return &Chunker{
		ChunkSize:  DefaultChunkSize,
		Overlap:    DefaultChunkOverlap,
		MinQuality: DefaultMinQuality,
	}
}

// Chunk splits content into an ordered sequence of chunks for the given
// source document. A document that never exceeds ChunkSize yields exactly
// one chunk; a document whose only content fails quality filtering yields
// zero chunks. TotalChunks is set on every emitted chunk once the final
// count is known; emitted chunks are never mutated afterwards.
func (c *Chunker) Chunk(content, title, url string) []*Chunk {
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	minQuality := c.MinQuality
	if minQuality <= 0 {
		minQuality = DefaultMinQuality
	}

	sentences := splitSentences(content, size)

	var drafts []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		currentTokens = 0
		if text == "" {
			return
		}
		if !PassesQuality(text, minQuality) {
			c.logger().Info("skipping low-quality chunk", "url", url, "score", QualityScore(text))
			return
		}
		drafts = append(drafts, text)
	}

	for _, sentence := range sentences {
		sentenceTokens := TokenCount(sentence)
		if currentTokens+sentenceTokens > size && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
		currentTokens += sentenceTokens
	}
	flush()

	total := len(drafts)
	chunks := make([]*Chunk, 0, total)
	for i, text := range drafts {
		chunks = append(chunks, &Chunk{
			ID:          c.newID(),
			URL:         url,
			Title:       title,
			Content:     text,
			ChunkIndex:  i,
			TotalChunks: total,
			CreatedAt:   c.now(),
			WordCount:   len(strings.Fields(text)),
			TokenCount:  TokenCount(text),
			Metadata:    map[string]any{"quality_score": QualityScore(text)},
		})
	}
	return chunks
}

// splitSentences splits content into sentence-like units. When no sentence
// boundary exists, it falls back to grouping words into pseudo-sentences
// capped at 80% of chunkSize tokens so the greedy accumulation loop still
// has units to work with.
func splitSentences(content string, chunkSize int) []string {
	sentences := sentenceBoundaryRe.Split(content, -1)
	if len(sentences) > 1 || (len(sentences) == 1 && sentences[0] != content) {
		return sentences
	}

	limit := float64(chunkSize) * 0.8
	var out []string
	var current []string
	for _, word := range strings.Fields(content) {
		test := word
		if len(current) > 0 {
			test = strings.Join(current, " ") + " " + word
		}
		if len(current) > 0 && float64(TokenCount(test)) > limit {
			out = append(out, strings.Join(current, " "))
			current = []string{word}
			continue
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}

func (c *Chunker) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Chunker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

func (c *Chunker) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}
