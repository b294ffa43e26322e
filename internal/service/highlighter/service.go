// Package highlighter is the application service behind every host: it owns
// the display settings, routes learned-set toggles, and runs the annotation
// engine over HTML and XML content.
package highlighter

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// SettingsKey is the persisted-state key holding the display settings.
const SettingsKey = "settings"

// readingIndex is the read side of the reading index.
type readingIndex interface {
	Get(ch rune) string
	Ready() bool
	Len() int
	Err() error
}

// learnedSet is the learned-character set.
type learnedSet interface {
	IsLearned(ch rune) bool
	Toggle(ctx context.Context, ch rune) (bool, error)
	Characters() []string
}

// stateStore persists the display settings. Get returns domain.ErrNotFound
// for a missing key.
type stateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// notifier delivers re-render requests to connected hosts.
type notifier interface {
	Broadcast(ev domain.Event)
}

// Service implements the highlighter operations.
type Service struct {
	log      *slog.Logger
	readings readingIndex
	learned  learnedSet
	store    stateStore
	notify   notifier
	engine   *annotate.Engine

	defaults domain.DisplayConfig
	settings atomic.Pointer[domain.DisplayConfig]
	// settingsMu serializes read-modify-write updates of settings.
	settingsMu sync.Mutex
}

// NewService creates a new highlighter service. Settings start at defaults
// until LoadSettings runs. notify may be nil.
func NewService(
	logger *slog.Logger,
	readings readingIndex,
	learned learnedSet,
	store stateStore,
	notify notifier,
	defaults domain.DisplayConfig,
) *Service {
	s := &Service{
		log:      logger.With("service", "highlighter"),
		readings: readings,
		learned:  learned,
		store:    store,
		notify:   notify,
		engine:   annotate.New(readings, learned),
		defaults: defaults,
	}
	s.settings.Store(&defaults)
	return s
}

// Settings returns the current display settings snapshot.
func (s *Service) Settings() domain.DisplayConfig {
	return *s.settings.Load()
}

// Status describes the readiness of the service's dependencies.
type Status struct {
	IndexReady   bool
	IndexEntries int
	IndexErr     error
	LearnedCount int
}

// Status reports the reading index and learned-set state.
func (s *Service) Status() Status {
	return Status{
		IndexReady:   s.readings.Ready(),
		IndexEntries: s.readings.Len(),
		IndexErr:     s.readings.Err(),
		LearnedCount: len(s.learned.Characters()),
	}
}

func (s *Service) broadcast(ev domain.Event) {
	if s.notify == nil {
		return
	}
	s.notify.Broadcast(ev)
}
