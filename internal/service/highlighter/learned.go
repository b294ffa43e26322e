package highlighter

import (
	"context"
	"fmt"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/metrics"
)

// CharacterInfo is what a host shows for one character.
type CharacterInfo struct {
	Character string `json:"character"`
	Reading   string `json:"reading"`
	Learned   bool   `json:"learned"`
}

// Lookup returns the reading and learned state of a single character.
// An absent reading is "".
func (s *Service) Lookup(character string) (CharacterInfo, error) {
	ch, err := domain.ParseCharacter(character)
	if err != nil {
		return CharacterInfo{}, err
	}
	return CharacterInfo{
		Character: string(ch),
		Reading:   s.readings.Get(ch),
		Learned:   s.learned.IsLearned(ch),
	}, nil
}

// ToggleLearned flips the learned state of character, persists the set and
// asks hosts to re-render. The flip stands even when the write fails; the
// returned info reflects it and the write error is returned alongside.
func (s *Service) ToggleLearned(ctx context.Context, character string) (CharacterInfo, error) {
	ch, err := domain.ParseCharacter(character)
	if err != nil {
		return CharacterInfo{}, err
	}

	learned, err := s.learned.Toggle(ctx, ch)
	metrics.ObserveLearnedToggle(learned, err)

	info := CharacterInfo{
		Character: string(ch),
		Reading:   s.readings.Get(ch),
		Learned:   learned,
	}

	s.broadcast(domain.Event{
		Kind:      domain.EventLayoutChange,
		Reason:    domain.ReasonLearnedToggled,
		Settings:  s.Settings(),
		Character: info.Character,
		Learned:   &learned,
	})

	if err != nil {
		return info, fmt.Errorf("highlighter.ToggleLearned: %w", err)
	}
	return info, nil
}

// LearnedCharacters lists the learned characters ordered by code point.
func (s *Service) LearnedCharacters() []string {
	return s.learned.Characters()
}
