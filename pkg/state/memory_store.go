package state

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend is a minimal in-memory Backend intended for tests and
// examples. It makes no persistence assumptions beyond process lifetime.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: map[string]string{}}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	value, ok := b.records[key]
	b.mu.RUnlock()
	return value, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	b.records[key] = value
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.records, key)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	keys := make([]string, 0, len(b.records))
	for key := range b.records {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	b.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// Len reports how many keys are stored.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}
