package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage is the session-lifetime medium. Any state.Backend satisfies it.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Generator produces new session ids.
type Generator func() (string, error)

// Provider hands out the current session id.
type Provider struct {
	keys     Keys
	storage  Storage
	generate Generator

	mu     sync.Mutex
	cached string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithGenerator replaces the default UUID generator.
func WithGenerator(gen Generator) ProviderOption {
	return func(p *Provider) {
		if gen != nil {
			p.generate = gen
		}
	}
}

// WithFixedID pins the session id, e.g. when a CLI resumes a known session.
func WithFixedID(id string) ProviderOption {
	return func(p *Provider) {
		if id != "" {
			p.cached = id
		}
	}
}

func NewProvider(keys Keys, storage Storage, opts ...ProviderOption) *Provider {
	p := &Provider{
		keys:     keys,
		storage:  storage,
		generate: NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Keys returns the key deriver the provider was built with.
func (p *Provider) Keys() Keys {
	return p.keys
}

// ID returns the current session id, generating and storing one on first use.
func (p *Provider) ID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	if p.storage != nil {
		stored, ok, err := p.storage.Get(ctx, p.keys.SID())
		if err != nil {
			return "", fmt.Errorf("session: read id: %w", err)
		}
		if ok && stored != "" {
			p.cached = stored
			return stored, nil
		}
	}

	id, err := p.generate()
	if err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}
	if p.storage != nil {
		if err := p.storage.Set(ctx, p.keys.SID(), id); err != nil {
			return "", fmt.Errorf("session: store id: %w", err)
		}
	}
	p.cached = id
	return id, nil
}

// Invalidate forgets the current id; the next ID call starts a new session.
func (p *Provider) Invalidate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = ""
	if p.storage == nil {
		return nil
	}
	if err := p.storage.Delete(ctx, p.keys.SID()); err != nil {
		return fmt.Errorf("session: delete id: %w", err)
	}
	return nil
}

// NewID returns a random UUID, falling back to <unix-millis>-<random hex>
// when the UUID source fails.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String(), nil
	}
	return fallbackID()
}

func fallbackID() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf[:]), nil
}
