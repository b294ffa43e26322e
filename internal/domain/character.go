package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Bounds of the ideograph block that receives annotations. The range stops at
// U+9FAF to match the classic CJK Unified Ideographs coverage of reading
// datasets; extension blocks are left as plain text.
const (
	IdeographFirst rune = '一'
	IdeographLast  rune = '龯'
)

// IsIdeograph reports whether r lies in the annotated ideograph block.
func IsIdeograph(r rune) bool {
	return r >= IdeographFirst && r <= IdeographLast
}

// NormalizeCharacter prepares a character for storage and lookup:
//   - trims surrounding whitespace
//   - applies Unicode NFC so compatibility ideographs fold onto their
//     unified code points
//
// The result may still contain more than one rune; use ParseCharacter when a
// single code point is required.
func NormalizeCharacter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

// ParseCharacter normalizes s and returns its single code point.
// Returns a *ValidationError when s is empty, holds more than one rune, or is
// not valid UTF-8.
func ParseCharacter(s string) (rune, error) {
	s = NormalizeCharacter(s)
	if s == "" {
		return 0, NewValidationError("character", "required")
	}
	if !utf8.ValidString(s) {
		return 0, NewValidationError("character", "invalid utf-8")
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, NewValidationError("character", "must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
