package processor

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/byteowlz/postmd/internal/record"
)

var (
	pdfLink  = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)]+)\)`)
	pdfEmoji = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}]`)
)

// ToPDF lays out the Markdown document line by line: headings get a larger
// font, quotes are indented and links are printed as "text (url)". The
// core PDF fonts only cover Latin-1, so emoji are dropped.
func (cp *ContentProcessor) ToPDF(md string, post *record.Post) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	if post != nil {
		pdf.SetTitle(post.Title, true)
		pdf.SetAuthor(post.DisplayName, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(md))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(pdfEmoji.ReplaceAllString(scanner.Text(), ""))
		line = pdfLink.ReplaceAllString(line, "$1 ($2)")

		switch {
		case line == "":
			pdf.Ln(4)
		case line == "---":
			y := pdf.GetY() + 2
			pdf.Line(10, y, 200, y)
			pdf.Ln(5)
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			size := 16.0
			if level >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 8, tr(strings.TrimSpace(line[level:])), "", "L", false)
		case strings.HasPrefix(line, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetX(16)
			pdf.MultiCell(0, 5, tr(strings.ReplaceAll(strings.TrimSpace(line[1:]), "**", "")), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(strings.ReplaceAll(line, "**", "")), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
