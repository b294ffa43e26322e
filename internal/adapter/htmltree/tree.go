// Package htmltree adapts golang.org/x/net/html trees to the annotation
// engine's content-tree interfaces.
package htmltree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
)

type node struct {
	n *html.Node
}

// Wrap exposes n to the engine. A nil n yields a nil Node.
func Wrap(n *html.Node) annotate.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

// Unwrap returns the underlying *html.Node, or nil for foreign nodes.
func Unwrap(n annotate.Node) *html.Node {
	if w, ok := n.(node); ok {
		return w.n
	}
	return nil
}

func (w node) Kind() annotate.NodeKind {
	switch w.n.Type {
	case html.ElementNode, html.DocumentNode:
		return annotate.KindElement
	case html.TextNode:
		return annotate.KindText
	}
	return annotate.KindOther
}

func (w node) Tag() string {
	if w.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(w.n.Data)
}

func (w node) Text() string {
	if w.n.Type != html.TextNode {
		return ""
	}
	return w.n.Data
}

func (w node) Children() []annotate.Node {
	var out []annotate.Node
	for c := w.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, node{n: c})
	}
	return out
}

func (w node) Parent() annotate.Node {
	return Wrap(w.n.Parent)
}

// Tree creates and splices *html.Node values.
type Tree struct{}

func (Tree) NewText(text string) annotate.Node {
	return node{n: &html.Node{Type: html.TextNode, Data: text}}
}

func (Tree) NewElement(tag, class string) annotate.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return node{n: n}
}

func (Tree) AppendChild(parent, child annotate.Node) {
	p, c := Unwrap(parent), Unwrap(child)
	if p == nil || c == nil || c.Parent != nil {
		return
	}
	p.AppendChild(c)
}

func (Tree) ReplaceChild(parent, oldChild, newChild annotate.Node) bool {
	p, o, n := Unwrap(parent), Unwrap(oldChild), Unwrap(newChild)
	if p == nil || o == nil || n == nil || o.Parent != p || n.Parent != nil {
		return false
	}
	p.InsertBefore(n, o)
	p.RemoveChild(o)
	return true
}

// Document is a parsed HTML input. Fragment inputs are held under a synthetic
// document node and rendered without any html/head/body scaffolding.
type Document struct {
	root     *html.Node
	fragment bool
}

// Parse reads r as a full document when it starts with a doctype or <html>
// tag, and as a body fragment otherwise.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	if isFullDocument(data) {
		return ParseDocument(bytes.NewReader(data))
	}
	return ParseFragment(bytes.NewReader(data))
}

// ParseDocument parses a complete HTML document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses r in the context of a <body> element.
func ParseFragment(r io.Reader) (*Document, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root, fragment: true}, nil
}

// Root returns the document node for the engine.
func (d *Document) Root() annotate.Node { return Wrap(d.root) }

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	if !d.fragment {
		return html.Render(w, d.root)
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String renders the document, returning "" on a render error.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func isFullDocument(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if len(head) > 64 {
		head = head[:64]
	}
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html"))
}
