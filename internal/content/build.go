package content

import "strings"

// Attrs is an attribute set for hand-built elements.
type Attrs map[string]string

type element struct {
	tag      string
	attrs    Attrs
	children []Node
}

type text string

// NewElement builds an in-memory element. Tag names are lower-cased.
func NewElement(tag string, attrs Attrs, children ...Node) Node {
	return &element{tag: strings.ToLower(tag), attrs: attrs, children: children}
}

// NewText builds an in-memory text node.
func NewText(s string) Node {
	return text(s)
}

func (e *element) Kind() Kind { return KindElement }
func (e *element) Tag() string { return e.tag }
func (e *element) Data() string { return "" }

func (e *element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

func (e *element) ChildNodes() []Node {
	return e.children
}

func (t text) Kind() Kind { return KindText }
func (t text) Tag() string { return "" }
func (t text) Attr(string) (string, bool) { return "", false }
func (t text) Data() string { return string(t) }
func (t text) ChildNodes() []Node { return nil }
