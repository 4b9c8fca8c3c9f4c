package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Backend stores raw payloads under string keys.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key starting with prefix, sorted ascending.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ETag returns a stable fingerprint for a stored payload. An empty payload
// yields an empty tag so "nothing stored yet" never matches a real version.
func ETag(payload string) string {
	if payload == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}
