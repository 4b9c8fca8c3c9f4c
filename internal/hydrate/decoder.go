// Package hydrate turns stored JSON documents into typed values. Pre-hooks
// reshape the raw object (backfills, schema merges) and post-hooks normalise
// the typed result.
package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-ficha/layering"
)

// ErrMalformed marks payloads that are not a JSON object.
var ErrMalformed = errors.New("hydrate: malformed payload")

// Context identifies the stored payload being decoded.
type Context struct {
	Key       string
	SessionID string
}

// Stage names the step that failed.
type Stage string

const (
	StageParse  Stage = "parse"
	StagePre    Stage = "pre-hook"
	StageDecode Stage = "decode"
	StagePost   Stage = "post-hook"
)

// Error reports a failed stage for the payload under Key.
type Error struct {
	Key   string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s %q: %v", e.Stage, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type PreHook func(Context, map[string]any) (map[string]any, error)

type PostHook[T any] func(Context, *T) error

// Option configures a Decoder.
type Option[T any] func(*Decoder[T])

// WithPreHook runs hook on the raw object before decoding. A hook returning a
// nil map keeps the current one.
func WithPreHook[T any](hook PreHook) Option[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.pre = append(d.pre, hook)
		}
	}
}

// WithPostHook runs hook on the decoded value.
func WithPostHook[T any](hook PostHook[T]) Option[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.post = append(d.post, hook)
		}
	}
}

// Decoder is safe for concurrent use once built.
type Decoder[T any] struct {
	pre  []PreHook
	post []PostHook[T]
}

func NewDecoder[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeString parses raw and decodes it. Anything but a JSON object fails
// with an error wrapping ErrMalformed.
func (d *Decoder[T]) DecodeString(ctx Context, raw string) (T, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		var zero T
		return zero, &Error{Key: ctx.Key, Stage: StageParse, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if payload == nil {
		var zero T
		return zero, &Error{Key: ctx.Key, Stage: StageParse, Err: fmt.Errorf("%w: not an object", ErrMalformed)}
	}
	return d.run(ctx, payload)
}

// Decode runs the hooks over a copy of payload; the caller's map is never
// modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	if payload == nil {
		var zero T
		return zero, &Error{Key: ctx.Key, Stage: StageParse, Err: fmt.Errorf("%w: nil payload", ErrMalformed)}
	}
	return d.run(ctx, layering.Clone(payload))
}

func (d *Decoder[T]) run(ctx Context, payload map[string]any) (T, error) {
	var result T
	for _, hook := range d.pre {
		next, err := hook(ctx, payload)
		if err != nil {
			return result, &Error{Key: ctx.Key, Stage: StagePre, Err: err}
		}
		if next != nil {
			payload = next
		}
	}

	buffer, err := json.Marshal(payload)
	if err == nil {
		err = json.Unmarshal(buffer, &result)
	}
	if err != nil {
		var zero T
		return zero, &Error{Key: ctx.Key, Stage: StageDecode, Err: err}
	}

	for _, hook := range d.post {
		if err := hook(ctx, &result); err != nil {
			var zero T
			return zero, &Error{Key: ctx.Key, Stage: StagePost, Err: err}
		}
	}
	return result, nil
}
