//go:build !js_eval

package rules

import (
	"errors"
	"testing"
)

func TestJSEngineUnavailableWithoutBuildTag(t *testing.T) {
	if JSAvailable() {
		t.Fatalf("expected js engine to be unavailable")
	}
	if _, err := NewEvaluator(EngineJS); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}
