package cachestore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns nil without error", func(t *testing.T) {
		s := NewMemoryStore()
		entry, err := s.Get(ctx, "absent")
		if err != nil || entry != nil {
			t.Fatalf("expected nil, nil on miss, got %v, %v", entry, err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		s := NewMemoryStore()
		now := time.Now().UTC()
		put := Entry{
			Key:       "k1",
			QueryText: "denim trends category: denim jackets",
			Payload:   []byte(`[{"title":"a"}]`),
			WrittenAt: now,
			ExpiresAt: now.Add(6 * time.Hour),
		}
		if err := s.Put(ctx, put); err != nil {
			t.Fatal(err)
		}

		got, err := s.Get(ctx, "k1")
		if err != nil || got == nil {
			t.Fatalf("expected the entry back, got %v, %v", got, err)
		}
		if got.QueryText != put.QueryText || string(got.Payload) != string(put.Payload) {
			t.Errorf("entry corrupted: %+v", got)
		}
		if !got.ExpiresAt.Equal(put.ExpiresAt) {
			t.Errorf("expiry changed: %s vs %s", got.ExpiresAt, put.ExpiresAt)
		}
	})

	t.Run("second put overwrites", func(t *testing.T) {
		s := NewMemoryStore()
		now := time.Now().UTC()
		_ = s.Put(ctx, Entry{Key: "k", Payload: []byte(`"old"`), ExpiresAt: now})
		_ = s.Put(ctx, Entry{Key: "k", Payload: []byte(`"new"`), ExpiresAt: now.Add(time.Hour)})

		got, _ := s.Get(ctx, "k")
		if got == nil || string(got.Payload) != `"new"` {
			t.Fatalf("expected last write to win, got %+v", got)
		}
	})

	t.Run("returned entry is a copy", func(t *testing.T) {
		s := NewMemoryStore()
		_ = s.Put(ctx, Entry{Key: "k", QueryText: "original"})
		first, _ := s.Get(ctx, "k")
		first.QueryText = "mutated"

		second, _ := s.Get(ctx, "k")
		if second.QueryText != "original" {
			t.Error("callers must not be able to mutate stored entries")
		}
	})
}
