package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventIdentity(t *testing.T) {
	cases := []struct {
		name     string
		event    Event
		wantType string
		wantID   string
	}{
		{"session", Event{SessionID: "s1", Key: "ficha-anestesica:v1:s1"}, ObjectTypeFicha, "s1"},
		{"namespace", Event{Namespace: "ficha-anestesica:v1"}, ObjectTypeNamespace, "ficha-anestesica:v1"},
		{"key only", Event{Key: "ficha-anestesica:v1"}, ObjectTypeFicha, "ficha-anestesica:v1"},
	}
	for _, tc := range cases {
		if got := tc.event.ObjectType(); got != tc.wantType {
			t.Errorf("%s: object type %q, want %q", tc.name, got, tc.wantType)
		}
		if got := tc.event.ObjectID(); got != tc.wantID {
			t.Errorf("%s: object id %q, want %q", tc.name, got, tc.wantID)
		}
	}
}

func TestEventMetadataOmitsZeroFields(t *testing.T) {
	index := 0
	meta := Event{Key: "k", Section: "vitais", Operation: "remove", Index: &index}.Metadata()
	if meta["key"] != "k" || meta["section"] != "vitais" || meta["operation"] != "remove" || meta["index"] != 0 {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if _, ok := meta["count"]; ok {
		t.Fatalf("expected count omitted, got %v", meta)
	}
	if got := (Event{}).Metadata(); len(got) != 0 {
		t.Fatalf("expected empty metadata, got %v", got)
	}
	if got := (Event{Count: 3}).Metadata()["count"]; got != 3 {
		t.Fatalf("expected count 3, got %v", got)
	}
}

func TestNormalizeTrimsAndDetaches(t *testing.T) {
	index := 2
	event := Event{Verb: " ficha.updated ", ActorID: " operator ", SessionID: " s1 ", Section: " rpa ", Index: &index}

	got := Normalize(event)
	if got.Verb != VerbFichaUpdated || got.ActorID != "operator" || got.SessionID != "s1" || got.Section != "rpa" {
		t.Fatalf("unexpected normalized event %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatal("expected OccurredAt to be stamped")
	}
	*got.Index = 9
	if index != 2 {
		t.Fatalf("expected caller index untouched, got %d", index)
	}
}

func TestHooksNotifyDropsUnroutableEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: VerbFichaReset}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	boom1, boom2 := errors.New("boom1"), errors.New("boom2")
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbFichaUpdated, SessionID: "s1"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatal("expected a non-nil context")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one captured event, got %d", len(capture.Events))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{})
	if disabled.Enabled() {
		t.Fatal("expected emitter disabled")
	}
	_ = disabled.Emit(context.Background(), Event{Verb: VerbFichaReset, SessionID: "s1"})
	if len(capture.Events) != 0 {
		t.Fatal("expected nothing captured while disabled")
	}

	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatal("expected nil emitter disabled")
	}
	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatal("expected emitter without hooks disabled")
	}

	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, Now: func() time.Time { return stamp }})
	if err := enabled.Emit(context.Background(), Event{Verb: VerbFichaReset, SessionID: "s1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got, _ := capture.Last()
	if got.Channel != DefaultChannel || !got.OccurredAt.Equal(stamp) {
		t.Fatalf("expected default channel and clock, got %+v", got)
	}
}

func TestEmitterPreservesExplicitChannelAndTime(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "ficha"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := emitter.Emit(context.Background(), Event{Verb: VerbFichaReset, SessionID: "s1", Channel: "audit", OccurredAt: at}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "audit" || !capture.Events[0].OccurredAt.Equal(at) {
		t.Fatalf("expected explicit fields kept, got %+v", capture.Events[0])
	}
}

func TestCaptureHookVerbsAndLast(t *testing.T) {
	capture := &CaptureHook{}
	if _, ok := capture.Last(); ok {
		t.Fatal("expected no last event")
	}
	hooks := Hooks{capture}
	for _, verb := range []string{VerbFichaMigrated, VerbFichaUpdated} {
		if err := hooks.Notify(context.Background(), Event{Verb: verb, SessionID: "s1"}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	verbs := capture.Verbs()
	if len(verbs) != 2 || verbs[0] != VerbFichaMigrated || verbs[1] != VerbFichaUpdated {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	if last, ok := capture.Last(); !ok || last.Verb != VerbFichaUpdated {
		t.Fatalf("unexpected last event %+v", last)
	}
}
