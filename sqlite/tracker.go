package sqlite

import (
	"context"
	"time"

	"github.com/ragdex/ragdex"
)

// Ensure TrackerStore implements ragdex.TrackerStore at compile time.
var _ ragdex.TrackerStore = (*TrackerStore)(nil)

// TrackerStore persists the processed-URL mapping across ingestion runs.
type TrackerStore struct {
	db *DB
}

// NewTrackerStore creates a new TrackerStore backed by the given database.
func NewTrackerStore(db *DB) *TrackerStore {
	return &TrackerStore{db: db}
}

// Load returns the persisted URL-to-hash mapping.
func (s *TrackerStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, content_hash FROM processed_urls`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var url, hash string
		if err := rows.Scan(&url, &hash); err != nil {
			return nil, err
		}
		hashes[url] = hash
	}
	return hashes, rows.Err()
}

// Save replaces the persisted mapping with the given one atomically.
func (s *TrackerStore) Save(ctx context.Context, hashes map[string]string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM processed_urls`); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for url, hash := range hashes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO processed_urls (url, content_hash, updated_at) VALUES (?, ?, ?)`,
			url, hash, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
