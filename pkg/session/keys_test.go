package session

import "testing"

func TestKeysLayout(t *testing.T) {
	keys := NewKeys("")
	if keys.Prefix != DefaultPrefix {
		t.Fatalf("expected default prefix, got %q", keys.Prefix)
	}

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"session", keys.Session("abc"), "ficha-anestesica:v1:abc"},
		{"chart", keys.Chart("abc"), "ficha-anestesica:v1:abc:chart"},
		{"sid", keys.SID(), "ficha-anestesica:v1:sid"},
		{"legacy", keys.Legacy(), "ficha-anestesica:v1"},
		{"namespace", keys.Namespace(), "ficha-anestesica:v1:"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestNewKeysTrimsSeparators(t *testing.T) {
	if got := NewKeys(" clinic:v2:: ").Session("x"); got != "clinic:v2:x" {
		t.Fatalf("unexpected session key %q", got)
	}
}

func TestKeysIsChart(t *testing.T) {
	keys := NewKeys("")
	if !keys.IsChart(keys.Chart("a")) {
		t.Fatalf("expected chart key to be recognised")
	}
	if keys.IsChart(keys.Session("a")) || keys.IsChart("other:chart") {
		t.Fatalf("expected non-chart keys to be rejected")
	}
}
