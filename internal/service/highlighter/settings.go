package highlighter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// persistedSettings mirrors the stored JSON. Pointer fields tell a missing
// key apart from a zero value so missing keys keep their defaults.
type persistedSettings struct {
	Enabled     *bool   `json:"enabled"`
	Orientation *string `json:"orientation"`
}

// LoadSettings reads the persisted settings and merges them over the
// defaults. Missing or unreadable settings leave the defaults in place and
// are logged, never returned.
func (s *Service) LoadSettings(ctx context.Context) domain.DisplayConfig {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	cfg := s.mergeStored(ctx)
	s.settings.Store(&cfg)

	s.log.InfoContext(ctx, "settings loaded",
		slog.Bool("enabled", cfg.Enabled),
		slog.String("orientation", cfg.Orientation.String()))
	return cfg
}

func (s *Service) mergeStored(ctx context.Context) domain.DisplayConfig {
	cfg := s.defaults

	raw, err := s.store.Get(ctx, SettingsKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return cfg
	case err != nil:
		s.log.WarnContext(ctx, "read settings failed, using defaults", slog.String("error", err.Error()))
		return cfg
	}

	var stored persistedSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.WarnContext(ctx, "malformed settings, using defaults", slog.String("error", err.Error()))
		return cfg
	}

	if stored.Enabled != nil {
		cfg.Enabled = *stored.Enabled
	}
	if stored.Orientation != nil {
		if o := domain.Orientation(*stored.Orientation); o.IsValid() {
			cfg.Orientation = o
		} else {
			s.log.WarnContext(ctx, "unknown stored orientation ignored", slog.String("orientation", *stored.Orientation))
		}
	}
	return cfg
}

// UpdateSettings applies a partial update, persists the full settings and
// asks hosts to re-render. The new snapshot is in effect even when the write
// fails; the write error is returned.
func (s *Service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (domain.DisplayConfig, error) {
	if err := input.Validate(); err != nil {
		return s.Settings(), err
	}

	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	next := input.apply(s.Settings())
	return next, s.commit(ctx, next)
}

// ToggleEnabled flips the enabled flag. It is the toggle-highlighter command.
func (s *Service) ToggleEnabled(ctx context.Context) (domain.DisplayConfig, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	next := s.Settings()
	next = next.WithEnabled(!next.Enabled)
	return next, s.commit(ctx, next)
}

// commit publishes next, notifies hosts and persists. Callers hold settingsMu.
func (s *Service) commit(ctx context.Context, next domain.DisplayConfig) error {
	prev := s.Settings()
	s.settings.Store(&next)

	if prev != next {
		s.broadcast(domain.Event{
			Kind:     domain.EventLayoutChange,
			Reason:   domain.ReasonSettingsChanged,
			Settings: next,
		})
	}

	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("highlighter.UpdateSettings: encode: %w", err)
	}
	if err := s.store.Put(ctx, SettingsKey, payload); err != nil {
		s.log.ErrorContext(ctx, "persist settings failed", slog.String("error", err.Error()))
		return fmt.Errorf("highlighter.UpdateSettings: persist: %w", err)
	}

	s.log.InfoContext(ctx, "settings updated",
		slog.Bool("enabled", next.Enabled),
		slog.String("orientation", next.Orientation.String()))
	return nil
}
