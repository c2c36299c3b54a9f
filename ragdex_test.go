package ragdex_test

import (
	"errors"
	"testing"

	"github.com/ragdex/ragdex"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application errors", func(t *testing.T) {
		t.Parallel()

		err := ragdex.Errorf(ragdex.EINVALID, "bad input")
		assert.Equal(t, ragdex.EINVALID, ragdex.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ragdex.EINTERNAL, ragdex.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", ragdex.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message for application errors", func(t *testing.T) {
		t.Parallel()

		err := ragdex.Errorf(ragdex.ENOTFOUND, "no such collection %q", "docs")
		assert.Equal(t, `no such collection "docs"`, ragdex.ErrorMessage(err))
	})

	t.Run("masks non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", ragdex.ErrorMessage(errors.New("boom")))
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	t.Run("is deterministic and hex encoded", func(t *testing.T) {
		t.Parallel()

		h1 := ragdex.ContentHash("some page text")
		h2 := ragdex.ContentHash("some page text")
		assert.Equal(t, h1, h2)
		assert.Len(t, h1, 64)
	})

	t.Run("differs for different content", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, ragdex.ContentHash("a"), ragdex.ContentHash("b"))
	})
}
