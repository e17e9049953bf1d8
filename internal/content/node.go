// Package content models the rendered page as a read-only tree.
//
// Extraction code only talks to the Node interface, so it works the same
// against a parsed HTML snapshot and against hand-built fixtures.
package content

import "strings"

type Kind int

const (
	KindOther Kind = iota
	KindElement
	KindText
)

// Node is the narrow view of a document node the extractor relies on.
type Node interface {
	Kind() Kind
	// Tag returns the lower-case element name, or "" for non-elements.
	Tag() string
	Attr(key string) (string, bool)
	// Data returns the text of a text node.
	Data() string
	ChildNodes() []Node
}

// Children returns the element children of n in document order.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	var out []Node
	for _, c := range n.ChildNodes() {
		if c.Kind() == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first element child of n, or nil.
func FirstChild(n Node) Node {
	if n == nil {
		return nil
	}
	for _, c := range n.ChildNodes() {
		if c.Kind() == KindElement {
			return c
		}
	}
	return nil
}

func AttrOr(n Node, key, fallback string) string {
	if n == nil {
		return fallback
	}
	if v, ok := n.Attr(key); ok {
		return v
	}
	return fallback
}

func Class(n Node) string {
	return AttrOr(n, "class", "")
}

// ClassContains reports whether the raw class attribute contains substr.
func ClassContains(n Node, substr string) bool {
	return strings.Contains(Class(n), substr)
}

func Src(n Node) string {
	return AttrOr(n, "src", "")
}
