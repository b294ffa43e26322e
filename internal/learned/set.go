// Package learned tracks the characters a user has marked as known.
// Membership in the set is the only thing that suppresses an annotation.
package learned

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// StateKey is the persisted-state key holding the learned characters.
const StateKey = "learned-characters"

// stateStore is the key/value blob store the set persists into.
// Get returns domain.ErrNotFound for a missing key.
type stateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Set is the mutable set of learned characters.
type Set struct {
	log   *slog.Logger
	store stateStore

	// persistMu serializes Toggle calls end to end so the last toggle is
	// always the last write. mu guards chars only.
	persistMu sync.Mutex
	mu        sync.RWMutex
	chars     map[rune]struct{}
}

// Load reads the learned characters from store. A missing key, a read error,
// or a malformed payload all yield an empty set; they are logged, not returned.
func Load(ctx context.Context, store stateStore, logger *slog.Logger) *Set {
	s := &Set{
		log:   logger.With("component", "learned_set"),
		store: store,
		chars: make(map[rune]struct{}),
	}

	raw, err := store.Get(ctx, StateKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.DebugContext(ctx, "no learned characters persisted")
		return s
	case err != nil:
		s.log.WarnContext(ctx, "read learned characters failed, starting empty",
			slog.String("error", err.Error()))
		return s
	}

	chars, skipped, err := decode(raw)
	if err != nil {
		s.log.WarnContext(ctx, "malformed learned characters, starting empty",
			slog.String("error", err.Error()))
		return s
	}
	s.chars = chars

	s.log.InfoContext(ctx, "learned characters loaded",
		slog.Int("count", len(chars)),
		slog.Int("skipped", skipped))
	return s
}

// NewEmpty returns an empty set backed by store without reading from it.
func NewEmpty(store stateStore, logger *slog.Logger) *Set {
	return &Set{
		log:   logger.With("component", "learned_set"),
		store: store,
		chars: make(map[rune]struct{}),
	}
}

// IsLearned reports whether ch is marked learned.
func (s *Set) IsLearned(ch rune) bool {
	s.mu.RLock()
	_, ok := s.chars[ch]
	s.mu.RUnlock()
	return ok
}

// Toggle flips the membership of ch and then persists the whole set.
// It returns the new membership. The in-memory change stands even when the
// write fails; the write error is returned so callers that need durability
// can react to it.
func (s *Set) Toggle(ctx context.Context, ch rune) (bool, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	_, was := s.chars[ch]
	if was {
		delete(s.chars, ch)
	} else {
		s.chars[ch] = struct{}{}
	}
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	learned := !was

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return learned, fmt.Errorf("learned.Toggle: encode: %w", err)
	}
	if err := s.store.Put(ctx, StateKey, payload); err != nil {
		s.log.ErrorContext(ctx, "persist learned characters failed",
			slog.String("character", string(ch)),
			slog.String("error", err.Error()))
		return learned, fmt.Errorf("learned.Toggle: persist: %w", err)
	}

	s.log.DebugContext(ctx, "learned character toggled",
		slog.String("character", string(ch)),
		slog.Bool("learned", learned),
		slog.Int("count", len(snapshot)))
	return learned, nil
}

// Characters returns the learned characters ordered by code point.
func (s *Set) Characters() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Len returns the number of learned characters.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chars)
}

func (s *Set) sortedLocked() []string {
	runes := make([]rune, 0, len(s.chars))
	for r := range s.chars {
		runes = append(runes, r)
	}
	slices.Sort(runes)

	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// decode parses the persisted JSON array. Entries that are not a single
// character are skipped and counted.
func decode(raw []byte) (map[rune]struct{}, int, error) {
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, err
	}

	chars := make(map[rune]struct{}, len(items))
	skipped := 0
	for _, item := range items {
		item = domain.NormalizeCharacter(item)
		if utf8.RuneCountInString(item) != 1 {
			skipped++
			continue
		}
		r, _ := utf8.DecodeRuneInString(item)
		if r == utf8.RuneError {
			skipped++
			continue
		}
		chars[r] = struct{}{}
	}
	return chars, skipped, nil
}
