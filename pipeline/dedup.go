package pipeline

import (
	"context"
	"log/slog"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/bloom"
)

// DefaultScanLimit bounds how many stored points a duplicate check will
// examine. Collections larger than the limit trade completeness for
// bounded latency.
const DefaultScanLimit = 1000

// DuplicateDetector checks whether a chunk with identical content from the
// same URL is already stored. A chunk is a duplicate only when a stored
// point carries the same content hash and URL, so a positive answer is
// always confirmed against the store. A Bloom filter tracks every key
// observed in the store or upserted this run; once a scan has covered the
// whole collection, a Bloom miss proves absence and skips the scan (Bloom
// has no false negatives). Detection fails open: a store error means "not
// a duplicate" so ingestion never stalls on it.
type DuplicateDetector struct {
	Store     ragdex.VectorStore
	ScanLimit int
	Logger    *slog.Logger

	// seen holds keys known to be in the store. It is a superset of the
	// store's keys only after a scan has exhausted the collection.
	seen     *bloom.Filter
	complete bool
}

// NewDuplicateDetector returns a detector with the default scan limit and
// a seen set sized for ten thousand keys.
func NewDuplicateDetector(store ragdex.VectorStore) *DuplicateDetector {
	return &DuplicateDetector{
		Store:     store,
		ScanLimit: DefaultScanLimit,
		seen:      bloom.NewFilter(10000, 0.01),
	}
}

// IsDuplicate reports whether a stored chunk has the same content hash and
// URL as the given chunk.
func (d *DuplicateDetector) IsDuplicate(ctx context.Context, chunk *ragdex.Chunk) bool {
	key := ragdex.ContentHash(chunk.Content) + "|" + chunk.URL

	// A Bloom miss is definitive; a hit is only a hint and must be
	// confirmed by the scan below.
	if d.complete && d.seen != nil && !d.seen.Test(key) {
		return false
	}

	limit := d.ScanLimit
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	scanned := 0
	offset := ""
	for scanned < limit {
		batch := min(limit-scanned, 100)
		points, next, err := d.Store.Scroll(ctx, batch, offset)
		if err != nil {
			d.logger().Warn("duplicate scan failed, treating as new", "url", chunk.URL, "err", err)
			return false
		}
		for _, p := range points {
			k := p.Payload.ContentHash + "|" + p.Payload.URL
			if d.seen != nil {
				d.seen.Add(k)
			}
			if k == key {
				return true
			}
		}
		scanned += len(points)
		if next == "" || len(points) == 0 {
			// The collection fit inside the limit, so the seen set now
			// covers it and later misses can skip the scan.
			d.complete = true
			break
		}
		offset = next
	}
	return false
}

// Remember records a chunk as stored so the seen set stays a superset of
// the store. Call after a successful upsert.
func (d *DuplicateDetector) Remember(chunk *ragdex.Chunk) {
	if d.seen == nil {
		d.seen = bloom.NewFilter(10000, 0.01)
	}
	d.seen.Add(ragdex.ContentHash(chunk.Content) + "|" + chunk.URL)
}

func (d *DuplicateDetector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
