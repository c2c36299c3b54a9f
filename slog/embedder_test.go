package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/mock"
	ragslog "github.com/ragdex/ragdex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("logs text count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedFn: func(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
				return [][]float32{{1}, {2}}, nil
			},
		}

		e := ragslog.NewLoggingEmbedder(inner, logger)
		vectors, err := e.Embed(context.Background(), []string{"a", "b"}, ragdex.InputDocument)

		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		output := buf.String()
		assert.Contains(t, output, "embed")
		assert.Contains(t, output, "texts=2")
		assert.Contains(t, output, "input=search_document")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedFn: func(ctx context.Context, texts []string, input ragdex.InputType) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		e := ragslog.NewLoggingEmbedder(inner, logger)
		_, err := e.Embed(context.Background(), []string{"a"}, ragdex.InputQuery)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "quota exceeded")
	})

	t.Run("delegates Model", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Embedder{ModelFn: func() string { return "test-model" }}
		e := ragslog.NewLoggingEmbedder(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		assert.Equal(t, "test-model", e.Model())
	})
}
