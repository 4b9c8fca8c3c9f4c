package session

import (
	"context"
	"sync"
	"time"
)

// TTLStorage is an in-memory Storage whose entries expire after ttl without
// a read or write. A zero ttl keeps entries until deleted.
type TTLStorage struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

const minSweepInterval = time.Millisecond

type item struct {
	data string
	exp  time.Time
}

// NewTTLStorage returns a TTL storage. Call Close to stop the sweeper.
func NewTTLStorage(ttl time.Duration) *TTLStorage {
	s := &TTLStorage{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		go s.cleanup()
	}
	return s
}

func (s *TTLStorage) cleanup() {
	interval := s.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-tick.C:
			s.sweep()
		}
	}
}

func (s *TTLStorage) sweep() {
	s.mu.Lock()
	now := s.now()
	for k, v := range s.items {
		if s.expired(v, now) {
			delete(s.items, k)
		}
	}
	s.mu.Unlock()
}

func (s *TTLStorage) expired(it item, now time.Time) bool {
	return !it.exp.IsZero() && it.exp.Before(now)
}

// Get returns the value for key if present and not expired, and extends its
// expiry.
func (s *TTLStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	it, ok := s.items[key]
	if !ok || s.expired(it, now) {
		return "", false, nil
	}
	if s.ttl > 0 {
		it.exp = now.Add(s.ttl)
		s.items[key] = it
	}
	return it.data, true, nil
}

// Set stores the value for key with the storage TTL.
func (s *TTLStorage) Set(_ context.Context, key, value string) error {
	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.items[key] = item{data: value, exp: exp}
	s.mu.Unlock()
	return nil
}

// Delete removes the key.
func (s *TTLStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Close stops the background sweeper.
func (s *TTLStorage) Close() {
	s.once.Do(func() { close(s.stop) })
}
