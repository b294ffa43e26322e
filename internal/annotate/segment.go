package annotate

import (
	"unicode/utf8"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// readingLookup resolves a character to its reading ("" when unknown).
type readingLookup interface {
	Get(ch rune) string
}

// learnedChecker reports whether a character is marked learned.
type learnedChecker interface {
	IsLearned(ch rune) bool
}

// Segment splits text into plain and annotation fragments.
//
// Unmatched text between ideographs becomes one plain fragment. A learned
// ideograph becomes its own plain fragment; an unlearned one becomes an
// annotation fragment carrying its reading, which may be empty. Empty text
// yields no fragments.
func Segment(text string, learned learnedChecker, readings readingLookup) []domain.Fragment {
	if text == "" {
		return nil
	}

	var fragments []domain.Fragment
	last := 0
	for i, r := range text {
		if !domain.IsIdeograph(r) {
			continue
		}
		if i > last {
			fragments = append(fragments, domain.Fragment{Kind: domain.FragmentPlain, Text: text[last:i]})
		}

		ch := text[i : i+utf8.RuneLen(r)]
		if learned.IsLearned(r) {
			fragments = append(fragments, domain.Fragment{Kind: domain.FragmentPlain, Text: ch})
		} else {
			fragments = append(fragments, domain.Fragment{
				Kind:    domain.FragmentAnnotation,
				Text:    ch,
				Reading: readings.Get(r),
			})
		}
		last = i + len(ch)
	}

	if last < len(text) {
		fragments = append(fragments, domain.Fragment{Kind: domain.FragmentPlain, Text: text[last:]})
	}
	return fragments
}

// needsRewrite reports whether a text node must be replaced by its fragments:
// whenever an annotation was produced or the text was split. A single plain
// fragment leaves the node untouched.
func needsRewrite(fragments []domain.Fragment) bool {
	if len(fragments) > 1 {
		return true
	}
	return len(fragments) == 1 && fragments[0].Kind == domain.FragmentAnnotation
}
