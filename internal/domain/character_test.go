package domain

import (
	"errors"
	"testing"
)

func TestIsIdeograph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{name: "first in block", r: '一', want: true},
		{name: "last in block", r: '龯', want: true},
		{name: "common hanzi", r: '日', want: true},
		{name: "after block", r: '龰', want: false},
		{name: "before block", r: '䷿', want: false},
		{name: "hiragana", r: 'に', want: false},
		{name: "katakana", r: 'カ', want: false},
		{name: "bopomofo", r: 'ㄅ', want: false},
		{name: "latin", r: 'A', want: false},
		{name: "extension B", r: '\U00020000', want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsIdeograph(tt.r); got != tt.want {
				t.Errorf("IsIdeograph(%U) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestNormalizeCharacter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "日", want: "日"},
		{name: "trim spaces", input: "  日 ", want: "日"},
		{name: "compatibility ideograph folds", input: "\uF900", want: "\u8C48"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeCharacter(tt.input); got != tt.want {
				t.Errorf("NormalizeCharacter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCharacter(t *testing.T) {
	t.Parallel()

	r, err := ParseCharacter(" 學 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != '學' {
		t.Fatalf("got %q, want 學", r)
	}

	for _, bad := range []string{"", "  ", "日本", "\xff"} {
		if _, err := ParseCharacter(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseCharacter(%q) err = %v, want ErrValidation", bad, err)
		}
	}
}
