// Package slog provides logging decorators for ragdex services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ragdex/ragdex"
)

// Ensure LoggingEmbedder implements ragdex.Embedder.
var _ ragdex.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with call logging.
type LoggingEmbedder struct {
	next   ragdex.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next ragdex.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder, logging texts, input type, and
// duration.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
	begin := time.Now()
	vectors, err := e.next.Embed(ctx, texts, input)
	if err != nil {
		e.logger.Error("embed",
			"texts", len(texts),
			"input", string(input),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	e.logger.Info("embed",
		"texts", len(texts),
		"input", string(input),
		"duration", time.Since(begin),
	)
	return vectors, nil
}

// Model delegates to the wrapped embedder.
func (e *LoggingEmbedder) Model() string {
	return e.next.Model()
}
