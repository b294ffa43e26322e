// Package annotate rewrites content trees so that unlearned CJK ideographs
// carry ruby-style reading annotations.
//
// The engine works against the small Node/Tree capability interfaces, so the
// same walk serves parsed HTML, XML, or any other tree with element and text
// nodes.
package annotate

import (
	"strings"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// Markup emitted for every annotation:
//
//	<span class="kanji-highlight ORIENTATION"><ruby><rb>字</rb><rt>reading</rt></ruby></span>
//
// The wrapper replacing a rewritten text node is a bare <span>.
const (
	HighlightClass = "kanji-highlight"

	TagWrapper = "span"
	TagRuby    = "ruby"
	TagBase    = "rb"
	TagReading = "rt"
)

// opaqueTags are never descended into: raw-text and code containers, and the
// ruby markup the engine itself emits.
var opaqueTags = map[string]struct{}{
	"script":    {},
	"style":     {},
	"textarea":  {},
	"title":     {},
	"xmp":       {},
	"plaintext": {},
	"noembed":   {},
	"noframes":  {},
	"iframe":    {},
	"noscript":  {},
	"template":  {},
	"code":      {},
	"ruby":      {},
	"rb":        {},
	"rt":        {},
	"rp":        {},
	"rtc":       {},
}

// IsOpaque reports whether the walk skips an element with this tag.
func IsOpaque(tag string) bool {
	_, ok := opaqueTags[strings.ToLower(tag)]
	return ok
}

// Stats summarises one Process call.
type Stats struct {
	TextNodesScanned  int
	TextNodesReplaced int
	Annotations       int
	Suppressed        int
	OpaqueSkipped     int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.TextNodesScanned += other.TextNodesScanned
	s.TextNodesReplaced += other.TextNodesReplaced
	s.Annotations += other.Annotations
	s.Suppressed += other.Suppressed
	s.OpaqueSkipped += other.OpaqueSkipped
}

// Engine annotates content trees. It holds no per-call state and is safe
// for concurrent use as long as the lookups are.
type Engine struct {
	readings readingLookup
	learned  learnedChecker
}

// New creates an Engine.
func New(readings readingLookup, learned learnedChecker) *Engine {
	return &Engine{readings: readings, learned: learned}
}

// Process rewrites the subtree rooted at root in place.
//
// cfg.Orientation becomes the class of every new annotation. cfg.Enabled is
// not consulted: deciding whether to process at all is the caller's job.
// Text nodes are replaced through their parent, so a parentless text root is
// scanned but never rewritten.
func (e *Engine) Process(tree Tree, root Node, cfg domain.DisplayConfig) Stats {
	var st Stats
	if root == nil {
		return st
	}
	w := walker{engine: e, tree: tree, class: ClassFor(cfg.Orientation), stats: &st}
	w.visit(root)
	return st
}

type walker struct {
	engine *Engine
	tree   Tree
	class  string
	stats  *Stats
}

func (w *walker) visit(n Node) {
	switch n.Kind() {
	case KindText:
		w.rewriteText(n)
	case KindElement:
		if IsOpaque(n.Tag()) {
			w.stats.OpaqueSkipped++
			return
		}
		// Children is a snapshot: replacing a text child with a wrapper
		// must not shift or repeat the iteration.
		for _, child := range n.Children() {
			w.visit(child)
		}
	}
}

func (w *walker) rewriteText(n Node) {
	w.stats.TextNodesScanned++

	fragments := Segment(n.Text(), w.engine.learned, w.engine.readings)
	if !needsRewrite(fragments) {
		w.countSuppressed(fragments)
		return
	}

	parent := n.Parent()
	if parent == nil {
		return
	}

	wrapper := w.tree.NewElement(TagWrapper, "")
	for _, f := range fragments {
		w.tree.AppendChild(wrapper, w.build(f))
	}

	if !w.tree.ReplaceChild(parent, n, wrapper) {
		return
	}
	w.stats.TextNodesReplaced++
	for _, f := range fragments {
		if f.Kind == domain.FragmentAnnotation {
			w.stats.Annotations++
		}
	}
	w.countSuppressed(fragments)
}

func (w *walker) countSuppressed(fragments []domain.Fragment) {
	for _, f := range fragments {
		if f.Kind != domain.FragmentPlain {
			continue
		}
		for _, r := range f.Text {
			if domain.IsIdeograph(r) {
				w.stats.Suppressed++
			}
		}
	}
}

func (w *walker) build(f domain.Fragment) Node {
	if f.Kind == domain.FragmentPlain {
		return w.tree.NewText(f.Text)
	}

	span := w.tree.NewElement(TagWrapper, w.class)
	ruby := w.tree.NewElement(TagRuby, "")
	rb := w.tree.NewElement(TagBase, "")
	rt := w.tree.NewElement(TagReading, "")

	w.tree.AppendChild(rb, w.tree.NewText(f.Text))
	// An empty reading still gets its rt slot; there is simply no text in it.
	if f.Reading != "" {
		w.tree.AppendChild(rt, w.tree.NewText(f.Reading))
	}
	w.tree.AppendChild(ruby, rb)
	w.tree.AppendChild(ruby, rt)
	w.tree.AppendChild(span, ruby)
	return span
}
