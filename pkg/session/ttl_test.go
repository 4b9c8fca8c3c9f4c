package session

import (
	"context"
	"testing"
	"time"
)

func TestTTLStorageExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	s := NewTTLStorage(time.Hour)
	defer s.Close()
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected live entry, got %q ok=%v", v, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}

	s.sweep()
	s.mu.RLock()
	remaining := len(s.items)
	s.mu.RUnlock()
	if remaining != 0 {
		t.Fatalf("expected sweep to drop expired entry, %d left", remaining)
	}
}

func TestTTLStorageZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s := NewTTLStorage(0)
	defer s.Close()
	s.now = func() time.Time { return time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC) }

	_ = s.Set(ctx, "k", "v")
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatalf("expected entry without expiry")
	}
}

func TestTTLStorageReadExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	s := NewTTLStorage(time.Hour)
	defer s.Close()
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "k", "v")
	for i := 0; i < 3; i++ {
		now = now.Add(45 * time.Minute)
		if _, ok, _ := s.Get(ctx, "k"); !ok {
			t.Fatalf("read %d: expected entry kept alive by the previous read", i)
		}
	}

	now = now.Add(61 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire after an idle ttl")
	}
}

func TestTTLStorageTinyTTL(t *testing.T) {
	ctx := context.Background()
	s := NewTTLStorage(1)
	_ = s.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
	s.Close()
	s.Close()
}
