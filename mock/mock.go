// Package mock provides mock implementations of ragdex interfaces for
// testing.
package mock

import (
	"context"

	"github.com/ragdex/ragdex"
)

// Compile-time interface checks.
var (
	_ ragdex.Embedder       = (*Embedder)(nil)
	_ ragdex.VectorStore    = (*VectorStore)(nil)
	_ ragdex.Fetcher        = (*Fetcher)(nil)
	_ ragdex.Extractor      = (*Extractor)(nil)
	_ ragdex.SitemapService = (*SitemapService)(nil)
	_ ragdex.TrackerStore   = (*TrackerStore)(nil)
	_ ragdex.Asker          = (*Asker)(nil)
)

// Embedder is a mock implementation of ragdex.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error)
	ModelFn func() string
}

func (m *Embedder) Embed(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
	return m.EmbedFn(ctx, texts, input)
}

func (m *Embedder) Model() string {
	if m.ModelFn == nil {
		return "mock-model"
	}
	return m.ModelFn()
}

// VectorStore is a mock implementation of ragdex.VectorStore.
type VectorStore struct {
	EnsureCollectionFn func(ctx context.Context) error
	UpsertFn           func(ctx context.Context, points ...ragdex.Point) error
	SearchFn           func(ctx context.Context, params ragdex.SearchParams) ([]ragdex.ScoredPoint, error)
	ScrollFn           func(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error)
	CountFn            func(ctx context.Context) (int, error)
}

func (m *VectorStore) EnsureCollection(ctx context.Context) error {
	if m.EnsureCollectionFn == nil {
		return nil
	}
	return m.EnsureCollectionFn(ctx)
}

func (m *VectorStore) Upsert(ctx context.Context, points ...ragdex.Point) error {
	return m.UpsertFn(ctx, points...)
}

func (m *VectorStore) Search(ctx context.Context, params ragdex.SearchParams) ([]ragdex.ScoredPoint, error) {
	return m.SearchFn(ctx, params)
}

func (m *VectorStore) Scroll(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
	if m.ScrollFn == nil {
		return nil, "", nil
	}
	return m.ScrollFn(ctx, limit, offset)
}

func (m *VectorStore) Count(ctx context.Context) (int, error) {
	return m.CountFn(ctx)
}

// Fetcher is a mock implementation of ragdex.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFn(ctx, url)
}

func (m *Fetcher) Close() error {
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}

// Extractor is a mock implementation of ragdex.Extractor.
type Extractor struct {
	ExtractFn func(html, url string) (*ragdex.ExtractedPage, error)
}

func (m *Extractor) Extract(html, url string) (*ragdex.ExtractedPage, error) {
	return m.ExtractFn(html, url)
}

// SitemapService is a mock implementation of ragdex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *ragdex.URLFilter) ([]string, error)
}

func (m *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *ragdex.URLFilter) ([]string, error) {
	return m.DiscoverURLsFn(ctx, baseURL, filter)
}

// TrackerStore is a mock implementation of ragdex.TrackerStore.
type TrackerStore struct {
	LoadFn func(ctx context.Context) (map[string]string, error)
	SaveFn func(ctx context.Context, hashes map[string]string) error
}

func (m *TrackerStore) Load(ctx context.Context) (map[string]string, error) {
	if m.LoadFn == nil {
		return map[string]string{}, nil
	}
	return m.LoadFn(ctx)
}

func (m *TrackerStore) Save(ctx context.Context, hashes map[string]string) error {
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, hashes)
}

// Asker is a mock implementation of ragdex.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, results []ragdex.RetrievalResult) (string, error)
}

func (m *Asker) Ask(ctx context.Context, question string, results []ragdex.RetrievalResult) (string, error) {
	return m.AskFn(ctx, question, results)
}
