package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"GETracker/cache"
	"GETracker/model"
)

// Repository loads and saves the full watchlist snapshot. Save is
// called synchronously after every mutation; I/O errors are non-fatal.
type Repository interface {
	Load() (model.WatchlistSnapshot, error)
	Save(snapshot model.WatchlistSnapshot) error
}

// FileRepository persists the snapshot as a JSON file.
type FileRepository struct {
	Path string
}

// Load reads the snapshot from disk. Returns an empty snapshot if the
// file doesn't exist.
func (r *FileRepository) Load() (model.WatchlistSnapshot, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WatchlistSnapshot{}, nil
		}
		return model.WatchlistSnapshot{}, err
	}
	var snapshot model.WatchlistSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.WatchlistSnapshot{}, err
	}
	return snapshot, nil
}

func (r *FileRepository) Save(snapshot model.WatchlistSnapshot) error {
	snapshot.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.Path, data, 0644)
}

const snapshotKey = "osrs_watchlist"

// CacheRepository persists the snapshot into the key-value cache store,
// under the same roof as the market data.
type CacheRepository struct {
	Store cache.Store
}

func (r *CacheRepository) Load() (model.WatchlistSnapshot, error) {
	entry, err := r.Store.Get(context.Background(), snapshotKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return model.WatchlistSnapshot{}, nil
		}
		return model.WatchlistSnapshot{}, err
	}
	var snapshot model.WatchlistSnapshot
	if err := json.Unmarshal(entry.Data, &snapshot); err != nil {
		return model.WatchlistSnapshot{}, err
	}
	return snapshot, nil
}

func (r *CacheRepository) Save(snapshot model.WatchlistSnapshot) error {
	snapshot.UpdatedAt = time.Now()
	return cache.SetJSON(context.Background(), r.Store, snapshotKey, snapshot)
}
