package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ragdex/ragdex"
)

// Ensure LoggingStore implements ragdex.VectorStore.
var _ ragdex.VectorStore = (*LoggingStore)(nil)

// LoggingStore wraps a VectorStore with call logging.
type LoggingStore struct {
	next   ragdex.VectorStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next ragdex.VectorStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// EnsureCollection delegates to the wrapped store.
func (s *LoggingStore) EnsureCollection(ctx context.Context) error {
	begin := time.Now()
	err := s.next.EnsureCollection(ctx)
	s.log("ensure_collection", begin, err)
	return err
}

// Upsert delegates to the wrapped store, logging point count and duration.
func (s *LoggingStore) Upsert(ctx context.Context, points ...ragdex.Point) error {
	begin := time.Now()
	err := s.next.Upsert(ctx, points...)
	if err != nil {
		s.logger.Error("upsert", "points", len(points), "duration", time.Since(begin), "err", err)
		return err
	}
	s.logger.Info("upsert", "points", len(points), "duration", time.Since(begin))
	return nil
}

// Search delegates to the wrapped store, logging hit count and duration.
func (s *LoggingStore) Search(ctx context.Context, params ragdex.SearchParams) ([]ragdex.ScoredPoint, error) {
	begin := time.Now()
	hits, err := s.next.Search(ctx, params)
	if err != nil {
		s.logger.Error("search", "limit", params.Limit, "duration", time.Since(begin), "err", err)
		return nil, err
	}
	s.logger.Info("search", "limit", params.Limit, "hits", len(hits), "duration", time.Since(begin))
	return hits, nil
}

// Scroll delegates to the wrapped store.
func (s *LoggingStore) Scroll(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
	begin := time.Now()
	points, next, err := s.next.Scroll(ctx, limit, offset)
	s.log("scroll", begin, err)
	return points, next, err
}

// Count delegates to the wrapped store.
func (s *LoggingStore) Count(ctx context.Context) (int, error) {
	begin := time.Now()
	count, err := s.next.Count(ctx)
	s.log("count", begin, err)
	return count, err
}

func (s *LoggingStore) log(op string, begin time.Time, err error) {
	if err != nil {
		s.logger.Error(op, "duration", time.Since(begin), "err", err)
		return
	}
	s.logger.Debug(op, "duration", time.Since(begin))
}
