package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/byteowlz/postmd/internal/content"
)

const (
	// Shorter single-line blocks may be headings.
	headingCandidateMax = 80
	// Headings directly under an image must be shorter still.
	subHeadingMax = 60
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// normalizeBody composes the text to NFC, folds runs of three or more
// newlines into one blank line and trims the result.
func normalizeBody(s string) string {
	s = norm.NFC.String(s)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// blockKind is how a short text block is rendered.
type blockKind int

const (
	paragraphBlock blockKind = iota
	subHeadingBlock
)

// classifyShortBlock decides between sub-heading and paragraph for a text
// block. Only short single-line blocks (or blocks styled as headers) that
// directly follow an image become sub-headings; everything else stays a
// paragraph. Short opening paragraphs are the known ambiguity here.
func classifyShortBlock(text string, headerClass bool, index int, prevHadImage bool) blockKind {
	length := len([]rune(text))
	candidate := headerClass || (length < headingCandidateMax && !strings.Contains(text, "\n") && index > 0)
	if candidate && prevHadImage && length < subHeadingMax {
		return subHeadingBlock
	}
	return paragraphBlock
}

// articleBody walks the blocks of the container's wrapper in document order
// and renders each one as a Markdown fragment. Without blocks the visible
// text of the container is used as is.
func (e *Extractor) articleBody(container content.Node) string {
	blocks := content.Children(content.FirstChild(container))
	if len(blocks) == 0 {
		return normalizeBody(content.InnerText(container))
	}

	var parts []string
	for i, block := range blocks {
		prevHadImage := i > 0 && content.Find(blocks[i-1], content.Tag("img")) != nil
		if fragment := e.renderBlock(block, i, prevHadImage); fragment != "" {
			parts = append(parts, fragment)
		}
	}
	return normalizeBody(strings.Join(parts, ""))
}

func (e *Extractor) renderBlock(block content.Node, index int, prevHadImage bool) string {
	if src := mediaImage(block); src != "" {
		return fmt.Sprintf("\n![%s](%s)\n", e.opts.ImageAlt, HighRes(src, e.opts.ImageSize))
	}

	text := content.InnerText(block)
	if text == "" {
		return ""
	}

	tag := block.Tag()
	switch {
	case tag == "blockquote" || content.ClassContains(block, "blockquote"):
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return "\n" + strings.Join(lines, "\n") + "\n"
	case tag == "ul" || tag == "ol":
		var b strings.Builder
		b.WriteString("\n")
		for i, item := range content.FindAll(block, content.Tag("li")) {
			marker := "- "
			if tag == "ol" {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			b.WriteString(marker + content.InnerText(item) + "\n")
		}
		b.WriteString("\n")
		return b.String()
	}

	if classifyShortBlock(text, content.ClassContains(block, "header"), index, prevHadImage) == subHeadingBlock {
		return "\n### " + text + "\n"
	}
	return "\n" + text + "\n"
}

// mediaImage returns the source of the first post image in block.
func mediaImage(block content.Node) string {
	for _, img := range content.FindAll(block, content.Tag("img")) {
		if src := content.Src(img); isMediaURL(src) {
			return src
		}
	}
	return ""
}
