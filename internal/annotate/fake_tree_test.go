package annotate

import (
	"strings"
)

// fakeNode is a minimal in-memory content tree used to exercise the walk
// without any parser in the way.
type fakeNode struct {
	kind     NodeKind
	tag      string
	class    string
	text     string
	parent   *fakeNode
	children []*fakeNode
}

func (n *fakeNode) Kind() NodeKind { return n.kind }
func (n *fakeNode) Tag() string    { return n.tag }
func (n *fakeNode) Text() string   { return n.text }

func (n *fakeNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

type fakeTree struct {
	replaceRefused bool
}

func (fakeTree) NewText(text string) Node { return &fakeNode{kind: KindText, text: text} }

func (fakeTree) NewElement(tag, class string) Node {
	return &fakeNode{kind: KindElement, tag: tag, class: class}
}

func (fakeTree) AppendChild(parent, child Node) {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	c.parent = p
	p.children = append(p.children, c)
}

func (t fakeTree) ReplaceChild(parent, oldChild, newChild Node) bool {
	if t.replaceRefused {
		return false
	}
	p, o, n := parent.(*fakeNode), oldChild.(*fakeNode), newChild.(*fakeNode)
	for i, c := range p.children {
		if c == o {
			p.children[i] = n
			n.parent = p
			o.parent = nil
			return true
		}
	}
	return false
}

func el(tag string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{kind: KindElement, tag: tag}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func txt(s string) *fakeNode { return &fakeNode{kind: KindText, text: s} }

func comment(s string) *fakeNode { return &fakeNode{kind: KindOther, text: s} }

// render serialises the tree in an HTML-like form for assertions.
func render(n *fakeNode) string {
	var b strings.Builder
	renderTo(&b, n)
	return b.String()
}

func renderTo(b *strings.Builder, n *fakeNode) {
	switch n.kind {
	case KindText:
		b.WriteString(n.text)
	case KindOther:
		b.WriteString("<!--" + n.text + "-->")
	case KindElement:
		b.WriteString("<" + n.tag)
		if n.class != "" {
			b.WriteString(` class="` + n.class + `"`)
		}
		b.WriteString(">")
		for _, c := range n.children {
			renderTo(b, c)
		}
		b.WriteString("</" + n.tag + ">")
	}
}

type mapReadings map[rune]string

func (m mapReadings) Get(ch rune) string { return m[ch] }

type learnedSet map[rune]bool

func (s learnedSet) IsLearned(ch rune) bool { return s[ch] }
