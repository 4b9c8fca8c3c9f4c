package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a host helper callable from expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds helpers under case-insensitive names. It is safe
// for concurrent use.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: map[string]Function{}}
}

// Register adds fn under name. Names are trimmed and lower-cased; a name
// can only be registered once.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("rules: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("rules: function %q is nil", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = map[string]Function{}
	}
	if _, taken := r.funcs[key]; taken {
		return fmt.Errorf("rules: function %q already registered", key)
	}
	r.funcs[key] = fn
	return nil
}

// MustRegister is Register that panics on error, for package-level setup.
func (r *FunctionRegistry) MustRegister(name string, fn Function) *FunctionRegistry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// Names lists registered helpers in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.funcs[strings.ToLower(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn(args...)
}

func (r *FunctionRegistry) bind(name string) func(...any) (any, error) {
	return func(args ...any) (any, error) {
		return r.Call(name, args...)
	}
}
