package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewShortID(t *testing.T) {
	id := NewShortID()
	t.Logf("Generated short ID: %s", id)

	if len(id) != 8 {
		t.Errorf("Short ID length: got %d, want 8", len(id))
	}
	for _, ch := range id {
		if ch >= 'a' && ch <= 'z' {
			t.Errorf("Short ID contains lower-case char: %s", id)
			break
		}
	}

	if NewShortID() == id {
		t.Error("Consecutive short IDs should differ")
	}
}

func TestTruncateID(t *testing.T) {
	if got := TruncateID("ABCDEFGHIJKLMNOP", 10); got != "ABCDEFGHIJ" {
		t.Errorf("TruncateID long: got %q", got)
	}
	if got := TruncateID("SHORT", 10); got != "SHORT" {
		t.Errorf("TruncateID short: got %q", got)
	}
	if got := TruncateID("", 10); got != "" {
		t.Errorf("TruncateID empty: got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("Cemento Gris", 150); got != "Cemento Gris" {
		t.Errorf("TruncateRunes short: got %q", got)
	}
	if got := TruncateRunes("ééééé", 3); got != "ééé" {
		t.Errorf("TruncateRunes accents: got %q", got)
	}

	// A multi-byte rune crossing the cut must not be split
	s := strings.Repeat("x", 149) + "é y más"
	got := TruncateRunes(s, 150)
	if !utf8.ValidString(got) {
		t.Errorf("TruncateRunes produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 150 {
		t.Errorf("TruncateRunes length: got %d runes, want 150", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "é") {
		t.Errorf("TruncateRunes should end on the whole rune, got %q", got[len(got)-3:])
	}
}
