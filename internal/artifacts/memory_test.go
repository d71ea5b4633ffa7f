package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	data := []byte("Review,Sentiment\ngood,Positive\n")
	if err := store.Put(ctx, "batch-1", data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data[0] = 'X'

	got, err := store.Get(ctx, "batch-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "Review,Sentiment\ngood,Positive\n" {
		t.Fatalf("stored data was aliased: %q", got)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore(0)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Put(ctx, "old", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, err := store.Get(ctx, "old"); err != nil {
		t.Fatalf("expected artifact before expiry, got %v", err)
	}

	now = now.Add(time.Second)
	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry got %v", err)
	}
}

func TestMemoryStoreEvictsOnPut(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Put(ctx, "a", []byte("a"))
	now = now.Add(2 * time.Minute)
	_ = store.Put(ctx, "b", []byte("b"))

	if len(store.entries) != 1 {
		t.Fatalf("expected expired entry to be evicted, have %d entries", len(store.entries))
	}
}

func TestMemoryStoreCapacity(t *testing.T) {
	store := NewMemoryStore(time.Minute).WithMaxBytes(10)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Put(ctx, "first", []byte("aaaa")); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	now = now.Add(time.Second)
	if err := store.Put(ctx, "second", []byte("bbbb")); err != nil {
		t.Fatalf("Put second: %v", err)
	}
	now = now.Add(time.Second)
	if err := store.Put(ctx, "third", []byte("cccc")); err != nil {
		t.Fatalf("Put third: %v", err)
	}

	if _, err := store.Get(ctx, "first"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest artifact to be dropped, got %v", err)
	}
	for _, id := range []string{"second", "third"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Fatalf("Get %s: %v", id, err)
		}
	}
	if store.usedBytes != 8 {
		t.Fatalf("expected 8 bytes in use got %d", store.usedBytes)
	}
}

func TestMemoryStoreRejectsOversized(t *testing.T) {
	store := NewMemoryStore(time.Minute).WithMaxBytes(4)

	if err := store.Put(context.Background(), "big", []byte("too big")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge got %v", err)
	}
}

func TestMemoryStoreReplaceKeepsAccounting(t *testing.T) {
	store := NewMemoryStore(time.Minute).WithMaxBytes(6)
	ctx := context.Background()

	_ = store.Put(ctx, "same", []byte("abcd"))
	if err := store.Put(ctx, "same", []byte("efgh")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if store.usedBytes != 4 || len(store.entries) != 1 {
		t.Fatalf("unexpected accounting: %d bytes, %d entries", store.usedBytes, len(store.entries))
	}
}
