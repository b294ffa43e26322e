// Package reading holds the character → reading lookup table.
//
// An Index is loaded once from a dataset Source, usually in the background,
// and is read-only afterwards. Lookups never fail: an absent character, a
// failed load, or a load still in progress all yield the empty reading.
package reading

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// NoReading is returned by Get when a character has no known reading.
const NoReading = ""

// ErrAlreadyLoaded is returned when Load or Start is called a second time.
var ErrAlreadyLoaded = errors.New("reading index already loaded")

// Source opens the raw dataset stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// Index maps a character to its reading.
type Index struct {
	log      *slog.Logger
	readings atomic.Pointer[map[rune]string]

	once    sync.Once
	started atomic.Bool
	done    chan struct{}
	err     error
	stats   Stats
}

// New creates an empty index. Call Load or Start to populate it.
func New(logger *slog.Logger) *Index {
	return &Index{
		log:  logger.With("component", "reading_index"),
		done: make(chan struct{}),
	}
}

// FromMap builds an already-loaded index from an in-memory table.
func FromMap(logger *slog.Logger, readings map[rune]string) *Index {
	ix := New(logger)
	m := make(map[rune]string, len(readings))
	for k, v := range readings {
		m[k] = v
	}
	ix.readings.Store(&m)
	ix.stats = Stats{Bound: len(m)}
	ix.started.Store(true)
	ix.finish(nil)
	return ix
}

// Start loads the index from src in a background goroutine and returns a
// channel that is closed when loading has finished, successfully or not.
// Lookups made before then return NoReading.
func (ix *Index) Start(ctx context.Context, src Source) <-chan struct{} {
	if !ix.started.CompareAndSwap(false, true) {
		ix.log.Warn("reading index start ignored", slog.String("error", ErrAlreadyLoaded.Error()))
		return ix.done
	}
	go func() {
		_ = ix.load(ctx, src)
	}()
	return ix.done
}

// Load populates the index from src synchronously.
// A fetch or parse failure is logged and returned; the index then stays empty
// for the rest of its life.
func (ix *Index) Load(ctx context.Context, src Source) error {
	if !ix.started.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}
	return ix.load(ctx, src)
}

func (ix *Index) load(ctx context.Context, src Source) (err error) {
	start := time.Now()
	defer func() { ix.finish(err) }()

	rc, err := src.Open(ctx)
	if err != nil {
		err = fmt.Errorf("reading.Load: open %s: %w", src, err)
		ix.log.ErrorContext(ctx, "reading index load failed", slog.String("error", err.Error()))
		return err
	}
	defer rc.Close()

	result, err := Parse(rc)
	if err != nil {
		err = fmt.Errorf("reading.Load: parse %s: %w", src, err)
		ix.log.ErrorContext(ctx, "reading index load failed", slog.String("error", err.Error()))
		return err
	}

	ix.readings.Store(&result.Readings)
	ix.stats = result.Stats

	ix.log.InfoContext(ctx, "reading index loaded",
		slog.String("source", src.String()),
		slog.Int("records", result.Stats.Records),
		slog.Int("bound", result.Stats.Bound),
		slog.Int("empty_meanings", result.Stats.EmptyMeanings),
		slog.Int("invalid", result.Stats.Invalid),
		slog.Int("duplicates", result.Stats.Duplicates),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (ix *Index) finish(err error) {
	ix.once.Do(func() {
		ix.err = err
		close(ix.done)
	})
}

// Get returns the reading for ch, or NoReading.
func (ix *Index) Get(ch rune) string {
	m := ix.readings.Load()
	if m == nil {
		return NoReading
	}
	return (*m)[ch]
}

// Len returns the number of characters with a reading.
func (ix *Index) Len() int {
	m := ix.readings.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// Done is closed once loading has finished.
func (ix *Index) Done() <-chan struct{} { return ix.done }

// Ready reports whether loading has finished.
func (ix *Index) Ready() bool {
	select {
	case <-ix.done:
		return true
	default:
		return false
	}
}

// Err returns the load error, if any. It is nil until loading has finished.
func (ix *Index) Err() error {
	if !ix.Ready() {
		return nil
	}
	return ix.err
}

// Stats returns the parser statistics of the completed load.
func (ix *Index) Stats() Stats {
	if !ix.Ready() {
		return Stats{}
	}
	return ix.stats
}
