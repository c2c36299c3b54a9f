package main

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/goquery"
	raghttp "github.com/ragdex/ragdex/http"
	"github.com/ragdex/ragdex/pipeline"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	var urlFilter *ragdex.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &ragdex.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	minInterval, err := time.ParseDuration(c.RateLimit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid rate limit %q: %v\n", c.RateLimit, err)
		return err
	}

	extractor := goquery.NewExtractor()

	chunker := ragdex.NewChunker()
	chunker.ChunkSize = c.ChunkSize
	chunker.Overlap = c.Overlap
	chunker.Logger = deps.Logger

	embedder := pipeline.NewBatchEmbedder(deps.Embedder)
	embedder.BatchSize = c.BatchSize
	embedder.Throttle = pipeline.NewThrottle(minInterval)
	embedder.Logger = deps.Logger

	detector := pipeline.NewDuplicateDetector(deps.Store)
	detector.Logger = deps.Logger

	p := &pipeline.Pipeline{
		Sitemaps:     raghttp.NewSitemapService(http.DefaultClient, extractor),
		Fetcher:      deps.Fetcher,
		Extractor:    extractor,
		Chunker:      chunker,
		Embedder:     embedder,
		Detector:     detector,
		Store:        deps.Store,
		Tracker:      ragdex.NewChangeTracker(),
		TrackerStore: deps.TrackerStore,
		Retry:        pipeline.DefaultRetryPolicy(),
		Logger:       deps.Logger,
		LimitURLs:    c.Limit,
	}

	result, err := p.Run(deps.Ctx, c.URL, urlFilter)
	if err != nil {
		if result != nil {
			printIngestSummary(deps, result)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	printIngestSummary(deps, result)
	return nil
}

func printIngestSummary(deps *Dependencies, result *pipeline.Result) {
	fmt.Fprintf(deps.Stdout, "Processed %d pages (%d unchanged, %d failed)\n",
		result.Processed, result.Skipped, len(result.FailedURLs))
	fmt.Fprintf(deps.Stdout, "Stored %d chunks in %s (%.1f chunks/min, %d failed)\n",
		result.Chunks, result.Elapsed.Round(time.Second), result.ChunksPerMinute(), result.FailedChunks)
	for _, u := range result.FailedURLs {
		fmt.Fprintf(deps.Stderr, "  failed: %s\n", u)
	}
}
