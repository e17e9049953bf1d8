package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/byteowlz/postmd/internal/content"
	"github.com/byteowlz/postmd/internal/record"
)

const unknownUser = "unknown"

var (
	handleFromURL      = regexp.MustCompile(`(?:x|twitter)\.com/([^/?#]+)/status`)
	handleFromLinkPath = regexp.MustCompile(`/([^/?#]+)/status`)
)

// username prefers the handle in the page URL, then the first profile link
// of the author card.
func username(scope content.Node, sourceURL string) string {
	if m := handleFromURL.FindStringSubmatch(sourceURL); m != nil {
		return m[1]
	}
	card := content.Find(scope, authorIdentity)
	link := content.Find(card, content.All(content.Tag("a"), content.AttrPrefix("href", "/")))
	if link != nil {
		href := strings.TrimPrefix(content.AttrOr(link, "href", ""), "/")
		if handle, _, _ := strings.Cut(href, "/"); handle != "" {
			return handle
		}
	}
	return unknownUser
}

func displayName(scope content.Node, sourceURL string) string {
	card := content.Find(scope, authorIdentity)
	if name := firstLabel(card, 0); name != "" {
		return name
	}
	return username(scope, sourceURL)
}

// firstLabel returns the first span text under n that is longer than
// minLen and is not an @handle.
func firstLabel(n content.Node, minLen int) string {
	for _, span := range content.FindAll(n, content.Tag("span")) {
		text := strings.TrimSpace(content.TextContent(span))
		if text != "" && !strings.HasPrefix(text, "@") && len([]rune(text)) > minLen {
			return text
		}
	}
	return ""
}

func bodyText(post content.Node) string {
	textEl := content.Find(post, postText)
	if textEl == nil {
		return ""
	}
	return textWithLineBreaks(textEl)
}

// textWithLineBreaks rebuilds the text of n keeping <br> line breaks that
// InnerText would fold into block layout.
func textWithLineBreaks(n content.Node) string {
	var b strings.Builder
	for _, c := range n.ChildNodes() {
		switch c.Kind() {
		case content.KindText:
			b.WriteString(c.Data())
		case content.KindElement:
			switch c.Tag() {
			case "br":
				b.WriteByte('\n')
			case "a":
				b.WriteString(content.TextContent(c))
			case "img":
				b.WriteString(content.AttrOr(c, "alt", ""))
			default:
				b.WriteString(textWithLineBreaks(c))
			}
		}
	}
	return b.String()
}

func (e *Extractor) timestamp(scope content.Node) string {
	el := content.Find(scope, content.Tag("time"))
	if el == nil {
		return ""
	}
	if datetime, ok := el.Attr("datetime"); ok && datetime != "" {
		t, err := time.Parse(time.RFC3339, datetime)
		if err == nil {
			return t.In(e.opts.Location).Format(TimestampLayout)
		}
		log.Debug().Err(err).Str("datetime", datetime).Msg("unparseable datetime, using visible text")
	}
	return strings.TrimSpace(content.TextContent(el))
}

func (e *Extractor) media(post content.Node) []string {
	seen := make(map[string]bool)
	images := []string{}
	for _, container := range content.FindAll(post, photo) {
		for _, img := range content.FindAll(container, content.Tag("img")) {
			src := content.Src(img)
			if src == "" {
				continue
			}
			src = HighRes(src, e.opts.ImageSize)
			if !seen[src] {
				seen[src] = true
				images = append(images, src)
			}
		}
	}
	return images
}

func videoThumbnail(post content.Node) string {
	player := content.Find(post, videoPlayer)
	if player == nil {
		return ""
	}
	if poster := content.AttrOr(content.Find(player, content.Tag("video")), "poster", ""); poster != "" {
		return poster
	}
	return content.Src(content.Find(player, content.Tag("img")))
}

// quoted runs the reduced extraction over an embedded quote, if any.
func quoted(post content.Node) *record.Quoted {
	embed := content.Find(post, quoteEmbed)
	if embed == nil {
		return nil
	}

	handle := unknownUser
	link := content.Find(embed, content.All(content.Tag("a"), content.AttrContains("href", "/status/")))
	if m := handleFromLinkPath.FindStringSubmatch(content.AttrOr(link, "href", "")); m != nil {
		handle = m[1]
	}

	name := firstLabel(embed, 1)
	if name == "" {
		name = handle
	}

	return &record.Quoted{
		Username:    handle,
		DisplayName: name,
		Body:        normalizeBody(bodyText(embed)),
	}
}
