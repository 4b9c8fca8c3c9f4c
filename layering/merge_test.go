package layering

import (
	"reflect"
	"testing"
)

type pump struct {
	Enabled *bool
	Modes   []string
}

type equipment struct {
	Monitors map[string]bool
	Notes    []string
	Pump     *pump
	Model    string
	extra    int
}

func ptr[T any](v T) *T { return &v }

func TestMergeLayersBackfillsMonitorVocabulary(t *testing.T) {
	persisted := map[string]bool{"ECG": true, "BIS": false}
	defaults := map[string]bool{"ECG": false, "BIS": false, "TOF": false, "Capnografia": false}

	got := MergeLayers(persisted, defaults)
	want := map[string]bool{"ECG": true, "BIS": false, "TOF": false, "Capnografia": false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged map mismatch:\nwant: %#v\n got: %#v", want, got)
	}

	got["TOF"] = true
	if defaults["TOF"] {
		t.Fatal("expected result detached from the weaker layer")
	}
}

func TestMergeLayersStructs(t *testing.T) {
	strong := equipment{
		Monitors: map[string]bool{"ECG": true},
		Pump:     &pump{Enabled: ptr(true)},
	}
	weak := equipment{
		Monitors: map[string]bool{"BIS": true},
		Notes:    []string{"default"},
		Pump:     &pump{Enabled: ptr(false), Modes: []string{"Marsh"}},
		Model:    "Fabius",
	}

	got := MergeLayers(strong, weak)
	if !reflect.DeepEqual(got.Monitors, map[string]bool{"ECG": true, "BIS": true}) {
		t.Fatalf("unexpected monitors %#v", got.Monitors)
	}
	if !reflect.DeepEqual(got.Notes, []string{"default"}) {
		t.Fatalf("expected nil slice to fall through, got %#v", got.Notes)
	}
	if got.Pump == nil || !*got.Pump.Enabled || !reflect.DeepEqual(got.Pump.Modes, []string{"Marsh"}) {
		t.Fatalf("unexpected pump %#v", got.Pump)
	}
	if got.Model != "" {
		t.Fatalf("expected the stronger empty string to win, got %q", got.Model)
	}
}

func TestMergeLayersNestedPayloads(t *testing.T) {
	persisted := map[string]any{"meds": map[string]any{"equipamentos": map[string]any{"tci": true}}}
	defaults := map[string]any{
		"meds":     map[string]any{"equipamentos": map[string]any{"tci": false, "ventilacao": "Espontânea"}},
		"tecnicas": []any{},
	}

	got := MergeLayers(persisted, defaults)
	equip := got["meds"].(map[string]any)["equipamentos"].(map[string]any)
	if equip["tci"] != true || equip["ventilacao"] != "Espontânea" {
		t.Fatalf("unexpected equipment %#v", equip)
	}
	if _, ok := got["tecnicas"]; !ok {
		t.Fatalf("expected missing section backfilled, got %#v", got)
	}
}

func TestMergeLayersWithoutLayers(t *testing.T) {
	if got := MergeLayers[equipment](); !reflect.DeepEqual(got, equipment{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
	if got := MergeLayers[any](); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	original := equipment{
		Monitors: map[string]bool{"ECG": true},
		Notes:    []string{"n1"},
		Pump:     &pump{Enabled: ptr(true), Modes: []string{"Schneider"}},
		extra:    7,
	}

	cloned := Clone(original)
	if !reflect.DeepEqual(original, cloned) {
		t.Fatalf("clone mismatch:\nwant: %#v\n got: %#v", original, cloned)
	}

	cloned.Monitors["ECG"] = false
	cloned.Notes[0] = "changed"
	cloned.Pump.Modes[0] = "changed"
	*cloned.Pump.Enabled = false

	if !original.Monitors["ECG"] || original.Notes[0] != "n1" || original.Pump.Modes[0] != "Schneider" || !*original.Pump.Enabled {
		t.Fatalf("expected original untouched, got %#v", original)
	}
}

func TestClonePreservesEmptyVersusNil(t *testing.T) {
	type doc struct {
		Empty []string
		Nil   []string
	}
	cloned := Clone(doc{Empty: []string{}})
	if cloned.Empty == nil {
		t.Fatal("expected empty slice to stay non-nil")
	}
	if cloned.Nil != nil {
		t.Fatal("expected nil slice to stay nil")
	}
}

func TestBackfillKeepsExistingEntries(t *testing.T) {
	defaults := map[string]any{"ventilacao": "Espontânea", "tci_conc_unit": "ng", "modes": []any{"a"}}
	equip := map[string]any{"ventilacao": "Controlada"}

	got := Backfill(equip, defaults)
	if got["ventilacao"] != "Controlada" || got["tci_conc_unit"] != "ng" {
		t.Fatalf("unexpected backfill %#v", got)
	}
	got["modes"].([]any)[0] = "changed"
	if defaults["modes"].([]any)[0] != "a" {
		t.Fatal("expected backfilled values detached from src")
	}

	if got := Backfill(nil, map[string]int{"x": 1}); got["x"] != 1 {
		t.Fatalf("expected nil dst allocated, got %#v", got)
	}
}
