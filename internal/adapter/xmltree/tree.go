// Package xmltree adapts antchfx/xmlquery trees (XHTML, EPUB content
// documents and similar) to the annotation engine's content-tree interfaces.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
)

type node struct {
	n *xmlquery.Node
}

// Wrap exposes n to the engine. A nil n yields a nil Node.
func Wrap(n *xmlquery.Node) annotate.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

// Unwrap returns the underlying *xmlquery.Node, or nil for foreign nodes.
func Unwrap(n annotate.Node) *xmlquery.Node {
	if w, ok := n.(node); ok {
		return w.n
	}
	return nil
}

func (w node) Kind() annotate.NodeKind {
	switch w.n.Type {
	case xmlquery.ElementNode, xmlquery.DocumentNode:
		return annotate.KindElement
	case xmlquery.TextNode:
		return annotate.KindText
	}
	// CDATA, comments, declarations and processing instructions are left alone.
	return annotate.KindOther
}

func (w node) Tag() string {
	if w.n.Type != xmlquery.ElementNode {
		return ""
	}
	return w.n.Data
}

func (w node) Text() string {
	if w.n.Type != xmlquery.TextNode {
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

// Tree creates and splices *xmlquery.Node values.
type Tree struct{}

func (Tree) NewText(text string) annotate.Node {
	return node{n: &xmlquery.Node{Type: xmlquery.TextNode, Data: text}}
}

func (Tree) NewElement(tag, class string) annotate.Node {
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: tag}
	if class != "" {
		n.Attr = []xmlquery.Attr{{Name: xml.Name{Local: "class"}, Value: class}}
	}
	return node{n: n}
}

func (Tree) AppendChild(parent, child annotate.Node) {
	p, c := Unwrap(parent), Unwrap(child)
	if p == nil || c == nil || c.Parent != nil {
		return
	}
	xmlquery.AddChild(p, c)
}

// ReplaceChild splices newChild into oldChild's position. xmlquery has no
// insert-before primitive, so the sibling links are rewired directly.
func (Tree) ReplaceChild(parent, oldChild, newChild annotate.Node) bool {
	p, o, n := Unwrap(parent), Unwrap(oldChild), Unwrap(newChild)
	if p == nil || o == nil || n == nil || o.Parent != p || n.Parent != nil {
		return false
	}

	n.Parent = p
	n.PrevSibling = o.PrevSibling
	n.NextSibling = o.NextSibling
	if o.PrevSibling != nil {
		o.PrevSibling.NextSibling = n
	} else {
		p.FirstChild = n
	}
	if o.NextSibling != nil {
		o.NextSibling.PrevSibling = n
	} else {
		p.LastChild = n
	}

	o.Parent, o.PrevSibling, o.NextSibling = nil, nil, nil
	return true
}

// Document is a parsed XML input.
type Document struct {
	root *xmlquery.Node
	// declared is set when the input carried its own <?xml ...?> declaration.
	// xmlquery synthesizes one otherwise, and String drops it again.
	declared bool
}

// Parse reads a well-formed XML document from r.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}
	root, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return &Document{root: root, declared: hasDeclaration(raw)}, nil
}

// hasDeclaration reports whether raw opens with an XML declaration. Only a
// byte order mark may precede it.
func hasDeclaration(raw []byte) bool {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(raw, []byte("<?xml")) || len(raw) == len("<?xml") {
		return false
	}
	switch raw[len("<?xml")] {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// Root returns the document node for the engine.
func (d *Document) Root() annotate.Node { return Wrap(d.root) }

// String serializes the document with whitespace preserved. The XML
// declaration is written only when the input had one.
func (d *Document) String() string {
	var b strings.Builder
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if !d.declared && c.Type == xmlquery.DeclarationNode && c.Data == "xml" {
			continue
		}
		b.WriteString(c.OutputXMLWithOptions(xmlquery.WithOutputSelf(), xmlquery.WithPreserveSpace()))
	}
	return b.String()
}

// Render writes the serialized document to w.
func (d *Document) Render(w io.Writer) error {
	_, err := io.Copy(w, strings.NewReader(d.String()))
	return err
}
