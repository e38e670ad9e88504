package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// ErrNotFound is returned by Store.Get when no entry exists for a key.
var ErrNotFound = errors.New("cache: entry not found")

// Error wraps a storage-level fault. Reads that fail this way are
// treated as cache misses; writes are logged and swallowed by callers.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Entry is a raw cached value with its write timestamp.
type Entry struct {
	Data      []byte
	Timestamp time.Time
}

// Store is a persistent key-value store of timestamped entries.
// Every access is a complete replace of a single named entry.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NoExpiry disables the age check: entries are never withheld for age alone.
const NoExpiry = time.Duration(math.MaxInt64)

// Per-dataset expiry durations. Expiry is a property of the call site,
// not of the stored entry, so the same store serves all datasets.
const (
	ExpiryPrices     = 15 * time.Minute
	ExpiryVolumes    = time.Hour
	ExpiryTimeseries = 30 * time.Minute
	ExpiryMapping    = 24 * time.Hour
	ExpiryImages     = 7 * 24 * time.Hour
)

// GetJSON reads and decodes a cached value, failing closed: a missing
// key, a storage error, a decode error, or an entry older than expiry
// all read as absent.
func GetJSON[T any](ctx context.Context, s Store, key string, expiry time.Duration) (T, bool) {
	var zero T
	entry, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] cache read %q: %v", key, err)
		}
		return zero, false
	}
	if expiry != NoExpiry && time.Since(entry.Timestamp) > expiry {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(entry.Data, &out); err != nil {
		log.Printf("[WARN] cache decode %q: %v", key, err)
		return zero, false
	}
	return out, true
}

// GetJSONStale is GetJSON without the age check. Expired entries are
// not physically deleted, so this is the stale-while-error fallback path.
func GetJSONStale[T any](ctx context.Context, s Store, key string) (T, bool) {
	return GetJSON[T](ctx, s, key, NoExpiry)
}

// SetJSON encodes and stores a value stamped with the current time.
func SetJSON[T any](ctx context.Context, s Store, key string, data T) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	return s.Set(ctx, key, Entry{Data: raw, Timestamp: time.Now()})
}
