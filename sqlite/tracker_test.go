package sqlite_test

import (
	"context"
	"testing"

	"github.com/ragdex/ragdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTrackerStore(t *testing.T) {
	t.Parallel()

	t.Run("load on an empty database returns an empty map", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewTrackerStore(openTestDB(t))
		hashes, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, hashes)
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewTrackerStore(openTestDB(t))
		want := map[string]string{
			"https://example.com/a": "hash-a",
			"https://example.com/b": "hash-b",
		}

		require.NoError(t, store.Save(context.Background(), want))

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save replaces prior state", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewTrackerStore(openTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, map[string]string{
			"https://example.com/a": "old",
			"https://example.com/b": "old",
		}))
		require.NoError(t, store.Save(ctx, map[string]string{
			"https://example.com/a": "new",
		}))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"https://example.com/a": "new"}, got)
	})
}
