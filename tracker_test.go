package ragdex_test

import (
	"testing"

	"github.com/ragdex/ragdex"
	"github.com/stretchr/testify/assert"
)

func TestChangeTracker(t *testing.T) {
	t.Parallel()

	t.Run("unseen URL needs processing", func(t *testing.T) {
		t.Parallel()

		tracker := ragdex.NewChangeTracker()
		assert.True(t, tracker.ShouldProcess("https://example.com/docs", "abc"))
	})

	t.Run("unchanged content is skipped", func(t *testing.T) {
		t.Parallel()

		tracker := ragdex.NewChangeTracker()
		tracker.MarkProcessed("https://example.com/docs", "abc")
		assert.False(t, tracker.ShouldProcess("https://example.com/docs", "abc"))
	})

	t.Run("changed content needs reprocessing", func(t *testing.T) {
		t.Parallel()

		tracker := ragdex.NewChangeTracker()
		tracker.MarkProcessed("https://example.com/docs", "abc")
		assert.True(t, tracker.ShouldProcess("https://example.com/docs", "def"))
	})

	t.Run("snapshot and restore round-trip", func(t *testing.T) {
		t.Parallel()

		tracker := ragdex.NewChangeTracker()
		tracker.MarkProcessed("https://example.com/a", "h1")
		tracker.MarkProcessed("https://example.com/b", "h2")

		snapshot := tracker.Snapshot()

		restored := ragdex.NewChangeTracker()
		restored.Restore(snapshot)
		assert.Equal(t, 2, restored.Len())
		assert.False(t, restored.ShouldProcess("https://example.com/a", "h1"))
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		t.Parallel()

		tracker := ragdex.NewChangeTracker()
		tracker.MarkProcessed("https://example.com/a", "h1")

		snapshot := tracker.Snapshot()
		snapshot["https://example.com/a"] = "mutated"

		assert.False(t, tracker.ShouldProcess("https://example.com/a", "h1"))
	})
}
