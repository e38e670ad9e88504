package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := SetJSON(ctx, s, "k", payload{Value: 7, Name: "coal"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := GetJSON[payload](ctx, s, "k", time.Minute)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Value != 7 || got.Name != "coal" {
		t.Errorf("unexpected payload: %+v", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := GetJSON[payload](ctx, s, "k", time.Minute); ok {
		t.Error("expected miss after delete")
	}
}

func TestGetJSONExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Entry written an hour ago.
	old := Entry{Data: []byte(`{"value":1}`), Timestamp: time.Now().Add(-time.Hour)}
	if err := s.Set(ctx, "k", old); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, ok := GetJSON[payload](ctx, s, "k", 30*time.Minute); ok {
		t.Error("expected expired entry to read as absent")
	}
	if _, ok := GetJSON[payload](ctx, s, "k", 2*time.Hour); !ok {
		t.Error("expected entry within expiry to read as present")
	}

	// expiry=0: always absent, even for a just-written entry.
	if err := SetJSON(ctx, s, "fresh", payload{Value: 2}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := GetJSON[payload](ctx, s, "fresh", 0); ok {
		t.Error("expected expiry=0 to always read as absent")
	}

	// NoExpiry: never absent from age alone.
	if _, ok := GetJSON[payload](ctx, s, "k", NoExpiry); !ok {
		t.Error("expected NoExpiry to ignore entry age")
	}
	if _, ok := GetJSONStale[payload](ctx, s, "k"); !ok {
		t.Error("expected stale read to ignore entry age")
	}
}

func TestGetJSONCorruptEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "k", Entry{Data: []byte("not json"), Timestamp: time.Now()}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := GetJSON[payload](ctx, s, "k", time.Minute); ok {
		t.Error("expected undecodable entry to read as absent, not fail")
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	wrote := time.Now().Add(-25 * time.Hour)
	if err := s.Set(ctx, "k", Entry{Data: []byte(`{"value":3}`), Timestamp: wrote}); err != nil {
		t.Fatalf("set: %v", err)
	}
	entry, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Timestamp.UnixMilli() != wrote.UnixMilli() {
		t.Errorf("timestamp not preserved: got %v want %v", entry.Timestamp, wrote)
	}
	if string(entry.Data) != `{"value":3}` {
		t.Errorf("unexpected data: %s", entry.Data)
	}

	// Expired entries are withheld on the fast path but still readable stale.
	if _, ok := GetJSON[payload](ctx, s, "k", 24*time.Hour); ok {
		t.Error("expected 25h-old entry to be absent at 24h expiry")
	}
	if got, ok := GetJSONStale[payload](ctx, s, "k"); !ok || got.Value != 3 {
		t.Errorf("expected stale read to return data, got %+v ok=%v", got, ok)
	}

	// Overwrite replaces the whole entry.
	if err := SetJSON(ctx, s, "k", payload{Value: 9}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok := GetJSON[payload](ctx, s, "k", time.Minute)
	if !ok || got.Value != 9 {
		t.Errorf("expected overwritten value 9, got %+v ok=%v", got, ok)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
