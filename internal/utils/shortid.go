package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NewShortID returns an 8-character upper-case token for the legacy
// short-id columns (document, movement and price ids).
func NewShortID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// NewLineID returns a full UUID for document line primary keys.
func NewLineID() string {
	return uuid.NewString()
}

// TruncateID narrows an id to the given legacy column width. Over-long ids
// are cut silently; the store's fixed-width columns cannot hold more.
// Ids are ASCII, so a byte cut is a character cut.
func TruncateID(id string, width int) string {
	if len(id) > width {
		return id[:width]
	}
	return id
}

// TruncateRunes narrows free text to at most n characters. Cuts on rune
// boundaries: varchar widths count characters, not bytes, and a byte cut
// can split a multi-byte rune.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
