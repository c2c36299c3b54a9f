// Package pipeline implements the sequential ingestion pipeline: URL
// discovery, fetching, extraction, chunking, embedding, duplicate
// detection, and storage. Per-URL failures are recorded and skipped;
// only collection setup and URL discovery abort a run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ragdex/ragdex"
)

// Result summarizes a completed ingestion run.
type Result struct {
	Processed    int
	Skipped      int
	Chunks       int
	FailedURLs   []string
	FailedChunks int
	Elapsed      time.Duration
}

// ChunksPerMinute returns the run's chunk throughput.
func (r *Result) ChunksPerMinute() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Chunks) / r.Elapsed.Minutes()
}

// Pipeline wires the ingestion collaborators together. URLs are processed
// strictly one at a time; there is no concurrent fetching or embedding.
type Pipeline struct {
	Sitemaps     ragdex.SitemapService
	Fetcher      ragdex.Fetcher
	Extractor    ragdex.Extractor
	Chunker      *ragdex.Chunker
	Embedder     *BatchEmbedder
	Detector     *DuplicateDetector
	Store        ragdex.VectorStore
	Tracker      *ragdex.ChangeTracker
	TrackerStore ragdex.TrackerStore
	Retry        RetryPolicy
	Logger       *slog.Logger

	// LimitURLs caps the number of discovered URLs processed.
	// Zero means no limit.
	LimitURLs int
}

// Run ingests the documentation site rooted at sourceURL. Discovered URLs
// are filtered, fetched, chunked, embedded, and stored in order. The
// returned Result is valid even when some URLs failed; an error is
// returned only when the run as a whole could not proceed.
func (p *Pipeline) Run(ctx context.Context, sourceURL string, filter *ragdex.URLFilter) (*Result, error) {
	start := time.Now()

	if err := p.Store.EnsureCollection(ctx); err != nil {
		return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "ensuring collection: %v", err)
	}

	if p.TrackerStore != nil {
		hashes, err := p.TrackerStore.Load(ctx)
		if err != nil {
			p.logger().Warn("loading tracker state failed, starting fresh", "err", err)
		} else {
			p.Tracker.Restore(hashes)
		}
	}

	urls, err := p.Sitemaps.DiscoverURLs(ctx, sourceURL, filter)
	if err != nil {
		return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "discovering urls for %s: %v", sourceURL, err)
	}
	if p.LimitURLs > 0 && len(urls) > p.LimitURLs {
		urls = urls[:p.LimitURLs]
	}
	p.logger().Info("starting ingestion", "source", sourceURL, "urls", len(urls))

	result := &Result{}
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			p.saveTracker()
			return result, err
		}
		if err := p.processURL(ctx, url, result); err != nil {
			p.logger().Warn("url failed", "url", url, "err", err)
			result.FailedURLs = append(result.FailedURLs, url)
		}
	}

	result.Elapsed = time.Since(start)
	p.saveTracker()
	p.report(result, len(urls))
	return result, nil
}

func (p *Pipeline) processURL(ctx context.Context, url string, result *Result) error {
	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	page, err := p.Extractor.Extract(html, url)
	if err != nil {
		return err
	}
	if page.Text == "" {
		return ragdex.Errorf(ragdex.EINVALID, "no text extracted from %s", url)
	}

	if !p.Tracker.ShouldProcess(url, page.ContentHash) {
		p.logger().Info("unchanged, skipping", "url", url)
		result.Skipped++
		return nil
	}

	chunks := p.Chunker.Chunk(page.Text, page.Title, url)
	if len(chunks) == 0 {
		p.logger().Info("no chunks passed quality filtering", "url", url)
		p.Tracker.MarkProcessed(url, page.ContentHash)
		result.Processed++
		return nil
	}

	// Page-level extraction metadata rides along on every chunk, but the
	// chunker's own keys win on collision.
	for _, chunk := range chunks {
		for k, v := range page.Metadata {
			if _, ok := chunk.Metadata[k]; !ok {
				chunk.Metadata[k] = v
			}
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := p.Embedder.Embed(ctx, texts, ragdex.InputDocument)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		if len(vectors[i]) == 0 {
			result.FailedChunks++
			continue
		}
		if p.Detector != nil && p.Detector.IsDuplicate(ctx, chunk) {
			p.logger().Info("duplicate chunk, skipping", "url", url, "index", chunk.ChunkIndex)
			continue
		}

		point := ragdex.Point{
			ID:      chunk.ID,
			Vector:  vectors[i],
			Payload: ragdex.PayloadFromChunk(chunk),
		}
		err := p.Retry.Do(ctx, "upsert", func(ctx context.Context) error {
			return p.Store.Upsert(ctx, point)
		})
		if err != nil {
			p.logger().Warn("storing chunk failed", "url", url, "index", chunk.ChunkIndex, "err", err)
			result.FailedChunks++
			continue
		}
		if p.Detector != nil {
			p.Detector.Remember(chunk)
		}
		result.Chunks++
	}

	p.Tracker.MarkProcessed(url, page.ContentHash)
	result.Processed++
	return nil
}

func (p *Pipeline) saveTracker() {
	if p.TrackerStore == nil {
		return
	}
	// Best effort save with a fresh context so an interrupted run still
	// persists what it finished.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.TrackerStore.Save(ctx, p.Tracker.Snapshot()); err != nil {
		p.logger().Warn("saving tracker state failed", "err", err)
	}
}

func (p *Pipeline) report(result *Result, totalURLs int) {
	attrs := []any{
		"processed", result.Processed,
		"skipped", result.Skipped,
		"chunks", result.Chunks,
		"failed_urls", len(result.FailedURLs),
		"failed_chunks", result.FailedChunks,
		"elapsed", result.Elapsed.Round(time.Millisecond),
	}
	if totalURLs > 0 && float64(len(result.FailedURLs))/float64(totalURLs) > 0.1 {
		p.logger().Error("ingestion finished with high failure rate", attrs...)
		return
	}
	p.logger().Info("ingestion finished", attrs...)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
