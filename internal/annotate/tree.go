package annotate

// NodeKind is the capability-level kind of a content-tree node.
type NodeKind int

const (
	// KindOther covers comments, doctypes, processing instructions and any
	// node shape the adapter does not recognise. The walk treats it as opaque.
	KindOther NodeKind = iota
	KindElement
	KindText
)

// Node is the read side of a content tree.
// Adapters must return a nil interface, not a typed nil, for a missing parent.
type Node interface {
	Kind() NodeKind
	// Tag is the lower-case local element name; empty for non-elements.
	Tag() string
	// Text is the character data of a text node; empty for other kinds.
	Text() string
	// Children returns the current children in document order.
	Children() []Node
	Parent() Node
}

// Tree is the write side of a content tree: it creates detached nodes and
// splices them in.
type Tree interface {
	NewText(text string) Node
	// NewElement creates a detached element; class may be empty.
	NewElement(tag, class string) Node
	AppendChild(parent, child Node)
	// ReplaceChild swaps oldChild (a child of parent) for newChild and
	// reports whether the swap happened.
	ReplaceChild(parent, oldChild, newChild Node) bool
}
