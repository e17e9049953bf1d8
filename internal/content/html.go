package content

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// htmlNode adapts a parsed golang.org/x/net/html node.
type htmlNode struct {
	n *html.Node
}

// Parse reads an HTML document and returns its document node.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromSelection(doc.Selection), nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (Node, error) {
	return Parse(strings.NewReader(s))
}

// FromSelection wraps the first node of a goquery selection.
// It returns nil for an empty selection.
func FromSelection(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return FromHTML(sel.Get(0))
}

// FromHTML wraps an x/net/html node. It returns nil for a nil node.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

func (h htmlNode) Kind() Kind {
	switch h.n.Type {
	case html.ElementNode, html.DocumentNode:
		return KindElement
	case html.TextNode:
		return KindText
	default:
		return KindOther
	}
}

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(h.n.Data)
}

func (h htmlNode) Attr(key string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) ChildNodes() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}
