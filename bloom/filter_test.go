package bloom_test

import (
	"fmt"
	"testing"

	"github.com/ragdex/ragdex/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("added keys always test positive", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		for i := 0; i < 100; i++ {
			f.Add(fmt.Sprintf("hash-%d|https://example.com/%d", i, i))
		}
		for i := 0; i < 100; i++ {
			assert.True(t, f.Test(fmt.Sprintf("hash-%d|https://example.com/%d", i, i)))
		}
	})

	t.Run("unseen keys mostly test negative", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Add("known")

		falsePositives := 0
		for i := 0; i < 1000; i++ {
			if f.Test(fmt.Sprintf("unknown-%d", i)) {
				falsePositives++
			}
		}
		assert.Less(t, falsePositives, 50)
	})

	t.Run("estimated count tracks additions", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		assert.Zero(t, f.EstimatedCount())
		for i := 0; i < 100; i++ {
			f.Add(fmt.Sprintf("key-%d", i))
		}
		assert.InDelta(t, 100, float64(f.EstimatedCount()), 10)
	})
}
