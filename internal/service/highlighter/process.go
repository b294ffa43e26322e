package highlighter

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/htmltree"
	"github.com/heartmarshall/zhuyin-highlighter/internal/adapter/xmltree"
	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/metrics"
)

// Content formats.
const (
	FormatHTML = "html"
	FormatXML  = "xml"
)

// Result is the outcome of processing one document.
type Result struct {
	Content  string
	Settings domain.DisplayConfig
	Stats    annotate.Stats
	// Processed is false when the highlighter is disabled and Content is the
	// input unchanged.
	Processed bool
}

// document is a parsed tree the engine can walk.
type document interface {
	Root() annotate.Node
	String() string
}

// ProcessHTML annotates an HTML document or fragment. When the highlighter
// is disabled the input is returned unchanged.
func (s *Service) ProcessHTML(ctx context.Context, content []byte) (Result, error) {
	return s.process(ctx, FormatHTML, content, htmltree.Tree{}, func() (document, error) {
		return htmltree.Parse(bytes.NewReader(content))
	})
}

// ProcessXML annotates a well-formed XML or XHTML document. When the
// highlighter is disabled the input is returned unchanged.
func (s *Service) ProcessXML(ctx context.Context, content []byte) (Result, error) {
	return s.process(ctx, FormatXML, content, xmltree.Tree{}, func() (document, error) {
		return xmltree.Parse(bytes.NewReader(content))
	})
}

func (s *Service) process(
	ctx context.Context,
	format string,
	content []byte,
	tree annotate.Tree,
	parse func() (document, error),
) (Result, error) {
	start := time.Now()
	cfg := s.Settings()

	if !cfg.Enabled {
		metrics.ObserveAnnotate(format, metrics.ResultDisabled, 0, 0, time.Since(start))
		return Result{Content: string(content), Settings: cfg}, nil
	}

	doc, err := parse()
	if err != nil {
		metrics.ObserveAnnotate(format, metrics.ResultError, 0, 0, time.Since(start))
		return Result{}, domain.NewValidationError("content", err.Error())
	}

	stats := s.engine.Process(tree, doc.Root(), cfg)
	out := doc.String()

	elapsed := time.Since(start)
	metrics.ObserveAnnotate(format, metrics.ResultOK, stats.Annotations, stats.Suppressed, elapsed)
	s.log.DebugContext(ctx, "content processed",
		slog.String("format", format),
		slog.Int("bytes", len(content)),
		slog.Int("annotations", stats.Annotations),
		slog.Int("suppressed", stats.Suppressed),
		slog.Int("text_nodes_replaced", stats.TextNodesReplaced),
		slog.Duration("elapsed", elapsed))

	return Result{Content: out, Settings: cfg, Stats: stats, Processed: true}, nil
}
