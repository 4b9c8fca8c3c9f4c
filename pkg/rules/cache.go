package rules

import "sync"

// ProgramCache keeps compiled programs between evaluations. Keys are
// prefixed with the engine name so one cache can serve every engine.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapCache is an unbounded ProgramCache. Rule sets are small and fixed, so
// entries are never evicted.
type MapCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

func NewMapCache() *MapCache {
	return &MapCache{programs: make(map[string]any)}
}

func (c *MapCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

func (c *MapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = make(map[string]any)
	}
	c.programs[key] = value
}

// Len reports the number of cached programs.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// compile returns the program cached under key, building and storing it on
// a miss. A cached value of another type is rebuilt.
func compile[P any](cache ProgramCache, key string, build func() (P, error)) (P, error) {
	if cache != nil {
		if hit, ok := cache.Get(key); ok {
			if program, ok := hit.(P); ok {
				return program, nil
			}
		}
	}
	program, err := build()
	if err != nil {
		var zero P
		return zero, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}
