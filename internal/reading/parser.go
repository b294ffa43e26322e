package reading

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// ParseResult holds the readings decoded from a dataset.
type ParseResult struct {
	Readings map[rune]string
	Stats    Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	Records       int
	Bound         int
	EmptyMeanings int
	Invalid       int
	Duplicates    int
}

// Parse decodes a JSON array of character records from r.
//
// Each record with a non-empty meanings list binds word → meanings[0] reading.
// Records with no meanings are skipped. Records whose word is not exactly one
// character, or whose fields have the wrong JSON type, are counted as invalid
// and skipped. When a character appears in several records the first one wins.
// A syntactically broken document fails the whole parse.
func Parse(r io.Reader) (ParseResult, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return ParseResult{}, fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return ParseResult{}, fmt.Errorf("dataset must be a JSON array, got %v", tok)
	}

	result := ParseResult{Readings: make(map[rune]string)}

	for dec.More() {
		var rec domain.CharacterRecord
		if err := dec.Decode(&rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				result.Stats.Records++
				result.Stats.Invalid++
				continue
			}
			return ParseResult{}, fmt.Errorf("decode record %d: %w", result.Stats.Records+1, err)
		}
		result.Stats.Records++
		result.bind(rec)
	}

	if _, err := dec.Token(); err != nil {
		return ParseResult{}, fmt.Errorf("read closing token: %w", err)
	}

	return result, nil
}

func (r *ParseResult) bind(rec domain.CharacterRecord) {
	if len(rec.Meanings) == 0 {
		r.Stats.EmptyMeanings++
		return
	}

	word := domain.NormalizeCharacter(rec.Word)
	if utf8.RuneCountInString(word) != 1 {
		r.Stats.Invalid++
		return
	}
	ch, _ := utf8.DecodeRuneInString(word)
	if ch == utf8.RuneError {
		r.Stats.Invalid++
		return
	}

	if _, exists := r.Readings[ch]; exists {
		r.Stats.Duplicates++
		return
	}

	r.Readings[ch] = rec.Meanings[0].PrimaryReading()
	r.Stats.Bound++
}
