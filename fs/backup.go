// Package fs provides file-based backup and restore of the vector
// collection.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ragdex/ragdex"
)

const restoreBatchSize = 100

// SaveBackup writes a backup document to path atomically: the file is
// written to a temp name in the same directory and renamed into place.
func SaveBackup(path string, backup *ragdex.Backup) error {
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadBackup reads a backup document from path.
func LoadBackup(path string) (*ragdex.Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ragdex.Errorf(ragdex.ENOTFOUND, "backup file %s does not exist", path)
		}
		return nil, err
	}

	var backup ragdex.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, ragdex.Errorf(ragdex.EINVALID, "parsing backup file %s: %v", path, err)
	}
	return &backup, nil
}

// BackupCollection scrolls the entire collection and writes it to path.
// Returns the number of points backed up.
func BackupCollection(ctx context.Context, store ragdex.VectorStore, collection, path string) (int, error) {
	var points []ragdex.Point
	offset := ""
	for {
		batch, next, err := store.Scroll(ctx, 100, offset)
		if err != nil {
			return 0, err
		}
		points = append(points, batch...)
		if next == "" || len(batch) == 0 {
			break
		}
		offset = next
	}

	backup := &ragdex.Backup{
		CollectionName:  collection,
		TotalPoints:     len(points),
		BackupTimestamp: time.Now().UTC().Format(time.RFC3339),
		Points:          points,
	}
	if err := SaveBackup(path, backup); err != nil {
		return 0, err
	}
	return len(points), nil
}

// RestoreCollection loads a backup from path and upserts its points in
// batches. Returns the number of points restored.
func RestoreCollection(ctx context.Context, store ragdex.VectorStore, path string) (int, error) {
	backup, err := LoadBackup(path)
	if err != nil {
		return 0, err
	}

	if err := store.EnsureCollection(ctx); err != nil {
		return 0, err
	}

	for start := 0; start < len(backup.Points); start += restoreBatchSize {
		end := min(start+restoreBatchSize, len(backup.Points))
		if err := store.Upsert(ctx, backup.Points[start:end]...); err != nil {
			return start, err
		}
	}
	return len(backup.Points), nil
}
