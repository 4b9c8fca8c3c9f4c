package state_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/goliatone/go-ficha/pkg/state"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := state.NewMemoryBackend()

	if _, ok, err := backend.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "ficha-anestesica:v1:abc", `{"tecnicas":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := backend.Get(ctx, "ficha-anestesica:v1:abc")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `{"tecnicas":[]}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := backend.Delete(ctx, "ficha-anestesica:v1:abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if backend.Len() != 0 {
		t.Fatalf("expected empty backend, got %d keys", backend.Len())
	}
}

func TestMemoryBackendKeysFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	backend := state.NewMemoryBackend()
	for _, key := range []string{"p:b", "other", "p:a", "p:a:chart", "p"} {
		if err := backend.Set(ctx, key, "x"); err != nil {
			t.Fatalf("set %q: %v", key, err)
		}
	}

	keys, err := backend.Keys(ctx, "p:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"p:a", "p:a:chart", "p:b"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
}

func TestETag(t *testing.T) {
	if got := state.ETag(""); got != "" {
		t.Fatalf("expected empty etag for empty payload, got %q", got)
	}
	a := state.ETag(`{"a":1}`)
	b := state.ETag(`{"a":2}`)
	if a == "" || b == "" || a == b {
		t.Fatalf("expected distinct non-empty etags, got %q and %q", a, b)
	}
	if a != state.ETag(`{"a":1}`) {
		t.Fatalf("expected etag to be deterministic")
	}
}
