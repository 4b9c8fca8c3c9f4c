package session

import (
	"context"
	"errors"
	"testing"
)

func sequenceGenerator(ids ...string) Generator {
	i := 0
	return func() (string, error) {
		if i >= len(ids) {
			return "", errors.New("exhausted")
		}
		id := ids[i]
		i++
		return id, nil
	}
}

func TestProviderGeneratesOnceAndCaches(t *testing.T) {
	ctx := context.Background()
	storage := NewTTLStorage(0)
	defer storage.Close()

	p := NewProvider(NewKeys(""), storage, WithGenerator(sequenceGenerator("s1", "s2")))

	first, err := p.ID(ctx)
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	second, err := p.ID(ctx)
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	if first != "s1" || second != "s1" {
		t.Fatalf("expected cached id s1, got %q then %q", first, second)
	}

	stored, ok, _ := storage.Get(ctx, p.Keys().SID())
	if !ok || stored != "s1" {
		t.Fatalf("expected id persisted in session storage, got %q ok=%v", stored, ok)
	}
}

func TestProviderResumesFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewTTLStorage(0)
	defer storage.Close()
	keys := NewKeys("")
	if err := storage.Set(ctx, keys.SID(), "reloaded"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProvider(keys, storage, WithGenerator(sequenceGenerator("fresh")))
	id, err := p.ID(ctx)
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	if id != "reloaded" {
		t.Fatalf("expected stored id to be reused, got %q", id)
	}
}

func TestProviderInvalidateStartsNewSession(t *testing.T) {
	ctx := context.Background()
	storage := NewTTLStorage(0)
	defer storage.Close()
	p := NewProvider(NewKeys(""), storage, WithGenerator(sequenceGenerator("s1", "s2")))

	if _, err := p.ID(ctx); err != nil {
		t.Fatalf("id: %v", err)
	}
	if err := p.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := storage.Get(ctx, p.Keys().SID()); ok {
		t.Fatalf("expected stored id removed")
	}
	id, err := p.ID(ctx)
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	if id != "s2" {
		t.Fatalf("expected new id s2, got %q", id)
	}
}

func TestProviderFixedID(t *testing.T) {
	p := NewProvider(NewKeys(""), nil, WithFixedID("pinned"))
	id, err := p.ID(context.Background())
	if err != nil || id != "pinned" {
		t.Fatalf("expected pinned id, got %q err=%v", id, err)
	}
}

func TestProviderGeneratorFailure(t *testing.T) {
	p := NewProvider(NewKeys(""), nil, WithGenerator(func() (string, error) {
		return "", errors.New("no entropy")
	}))
	if _, err := p.ID(context.Background()); err == nil {
		t.Fatalf("expected generator error")
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestFallbackIDShape(t *testing.T) {
	id, err := fallbackID()
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if len(id) < 14 {
		t.Fatalf("unexpected fallback id %q", id)
	}
}
