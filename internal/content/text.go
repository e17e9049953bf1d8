package content

import (
	"strings"
	"unicode"
)

// blockTags break the visible text flow the way a browser lays them out.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// TextContent concatenates every descendant text node verbatim.
func TextContent(n Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectTextContent(&b, n)
	return b.String()
}

func collectTextContent(b *strings.Builder, n Node) {
	switch n.Kind() {
	case KindText:
		b.WriteString(n.Data())
	case KindElement:
		for _, c := range n.ChildNodes() {
			collectTextContent(b, c)
		}
	}
}

// InnerText approximates the text a reader sees: whitespace runs collapse
// to one space, <br> and block boundaries become line breaks, and each
// line is trimmed.
func InnerText(n Node) string {
	if n == nil {
		return ""
	}
	w := &innerTextWriter{}
	w.walk(n, false)

	lines := strings.Split(w.b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

type innerTextWriter struct {
	b         strings.Builder
	needBreak bool
}

func (w *innerTextWriter) breakLine() {
	if w.b.Len() > 0 {
		w.needBreak = true
	}
}

func (w *innerTextWriter) write(s string) {
	if s == "" {
		return
	}
	if w.needBreak {
		if !strings.HasSuffix(w.b.String(), "\n") {
			w.b.WriteByte('\n')
		}
		w.needBreak = false
	}
	w.b.WriteString(s)
}

func (w *innerTextWriter) walk(n Node, pre bool) {
	switch n.Kind() {
	case KindText:
		if pre {
			w.write(n.Data())
			return
		}
		s := collapseSpace(n.Data())
		if strings.HasPrefix(s, " ") && (w.needBreak || w.b.Len() == 0 || endsWithSpace(w.b.String())) {
			s = s[1:]
		}
		w.write(s)
	case KindElement:
		tag := n.Tag()
		if skipTags[tag] {
			return
		}
		if tag == "br" {
			w.needBreak = false
			w.b.WriteByte('\n')
			return
		}
		block := blockTags[tag]
		if block {
			w.breakLine()
		}
		for _, c := range n.ChildNodes() {
			w.walk(c, pre || tag == "pre")
		}
		if block {
			w.breakLine()
		}
	}
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n")
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
