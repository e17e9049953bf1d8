package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/byteowlz/postmd/internal/content"
	"github.com/byteowlz/postmd/internal/extractor"
	"github.com/byteowlz/postmd/internal/markdown"
	"github.com/byteowlz/postmd/internal/record"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
)

var extensions = map[string]string{
	FormatMarkdown: ".md",
	FormatText:     ".txt",
	FormatJSON:     ".json",
	FormatPDF:      ".pdf",
}

var supportedHosts = []string{"x.com", "twitter.com", "mobile.twitter.com", "mobile.x.com"}

type ProcessOptions struct {
	// SourceURL is the page address; discovered from the snapshot when empty.
	SourceURL string
	Format    string
	LineWidth int
}

type ProcessedContent struct {
	URL       string
	Post      *record.Post
	Markdown  string
	Output    []byte
	Extension string
}

type ContentProcessor struct {
	extractor  *extractor.Extractor
	serializer *markdown.Serializer
}

func NewContentProcessor(ext *extractor.Extractor, ser *markdown.Serializer) *ContentProcessor {
	return &ContentProcessor{extractor: ext, serializer: ser}
}

// Extension returns the file extension of format, including the dot.
func Extension(format string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("unknown output format: %s (available: markdown, text, json, pdf)", format)
	}
	return ext, nil
}

func (cp *ContentProcessor) Process(html string, opts ProcessOptions) (*ProcessedContent, error) {
	return cp.ProcessFromReader(strings.NewReader(html), opts)
}

func (cp *ContentProcessor) ProcessFromReader(r io.Reader, opts ProcessOptions) (*ProcessedContent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return cp.ProcessDocument(doc, opts)
}

// ProcessDocument extracts the post from a parsed snapshot and renders it.
func (cp *ContentProcessor) ProcessDocument(doc *goquery.Document, opts ProcessOptions) (*ProcessedContent, error) {
	format := opts.Format
	if format == "" {
		format = FormatMarkdown
	}
	ext, err := Extension(format)
	if err != nil {
		return nil, err
	}

	sourceURL := strings.TrimSpace(opts.SourceURL)
	if sourceURL == "" {
		sourceURL = DiscoverURL(doc)
		log.Debug().Str("url", sourceURL).Msg("source URL taken from snapshot metadata")
	}
	if warning := checkSourceURL(sourceURL); warning != "" {
		log.Warn().Str("url", sourceURL).Msg(warning)
	}

	post, err := cp.extractor.Extract(content.FromSelection(doc.Selection), sourceURL)
	if err != nil {
		return nil, err
	}

	md := cp.serializer.Serialize(post)
	result := &ProcessedContent{
		URL:       sourceURL,
		Post:      post,
		Markdown:  md,
		Extension: ext,
	}

	switch format {
	case FormatMarkdown:
		result.Output = []byte(md)
	case FormatText:
		result.Output = []byte(cp.ToText(md, opts.LineWidth))
	case FormatJSON:
		result.Output, err = cp.ToJSON(post, md)
	case FormatPDF:
		result.Output, err = cp.ToPDF(md, post)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", format, err)
	}

	return result, nil
}

// DiscoverURL reads the canonical page address from snapshot metadata.
func DiscoverURL(doc *goquery.Document) string {
	if u := findMetaContent(doc, []string{"og:url", "twitter:url"}); u != "" {
		return u
	}
	return strings.TrimSpace(doc.Find("link[rel='canonical']").AttrOr("href", ""))
}

func findMetaContent(doc *goquery.Document, properties []string) string {
	for _, prop := range properties {
		// Check name attribute
		if value := doc.Find(fmt.Sprintf("meta[name='%s']", prop)).AttrOr("content", ""); value != "" {
			return strings.TrimSpace(value)
		}
		// Check property attribute (for Open Graph tags)
		if value := doc.Find(fmt.Sprintf("meta[property='%s']", prop)).AttrOr("content", ""); value != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// checkSourceURL returns a warning for addresses that do not look like an
// X/Twitter page, or "" when the address is fine.
func checkSourceURL(raw string) string {
	if raw == "" {
		return "no source URL; pass --url or save the page with its metadata"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "source URL is not an absolute URL"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !slices.Contains(supportedHosts, host) {
		return "source URL is not an X (Twitter) page"
	}
	if !strings.Contains(u.Path, "/status/") && !strings.Contains(u.Path, "/article/") {
		return "source URL is not a post or article page"
	}
	return ""
}

type jsonDocument struct {
	Post     *record.Post `json:"post"`
	Markdown string       `json:"markdown"`
}

func (cp *ContentProcessor) ToJSON(post *record.Post, md string) ([]byte, error) {
	out, err := json.MarshalIndent(jsonDocument{Post: post, Markdown: md}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (cp *ContentProcessor) ToText(md string, lineWidth int) string {
	return cp.wrapText(stripBasicMarkdown(md), lineWidth)
}

// stripBasicMarkdown removes basic markdown formatting for plain text output
func stripBasicMarkdown(md string) string {
	lines := strings.Split(md, "\n")
	var result []string
	for _, line := range lines {
		trimmed := strings.TrimPrefix(line, "> ")
		if trimmed == ">" {
			trimmed = ""
		}

		// Remove heading markers
		for strings.HasPrefix(trimmed, "#") {
			trimmed = strings.TrimPrefix(trimmed, "#")
		}
		trimmed = strings.TrimSpace(trimmed)

		// Remove bold/italic markers
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		trimmed = strings.ReplaceAll(trimmed, "__", "")

		result = append(result, trimmed)
	}
	return strings.Join(result, "\n")
}

func (cp *ContentProcessor) wrapText(text string, lineWidth int) string {
	if lineWidth <= 0 {
		return text
	}

	var result strings.Builder
	paragraphs := strings.Split(text, "\n\n")

	for i, paragraph := range paragraphs {
		if i > 0 {
			result.WriteString("\n\n")
		}

		// Wrap each source line on its own so list items and
		// quoted lines keep their breaks.
		for j, line := range strings.Split(paragraph, "\n") {
			if j > 0 {
				result.WriteString("\n")
			}
			words := strings.Fields(line)
			if len(words) == 0 {
				continue
			}

			currentLine := words[0]
			for _, word := range words[1:] {
				if len([]rune(currentLine))+1+len([]rune(word)) <= lineWidth {
					currentLine += " " + word
				} else {
					result.WriteString(currentLine + "\n")
					currentLine = word
				}
			}
			result.WriteString(currentLine)
		}
	}

	return result.String()
}
