// Package markdown renders extracted posts as Markdown documents.
package markdown

import (
	"fmt"
	"strings"

	"github.com/byteowlz/postmd/internal/record"
)

type Options struct {
	// Labels defaults to English.
	Labels Labels
	// FrontMatter prepends a YAML metadata block.
	FrontMatter bool
}

// Serializer is a pure function of its options and input record.
type Serializer struct {
	labels      Labels
	frontMatter bool
}

func New(opts Options) *Serializer {
	labels := opts.Labels
	if labels.PostHeading == "" {
		labels = English
	}
	return &Serializer{labels: labels, frontMatter: opts.FrontMatter}
}

var statEmoji = map[record.Stat]string{
	record.Replies:  "💬",
	record.Retweets: "🔁",
	record.Likes:    "❤️",
	record.Views:    "👁️",
}

// Serialize renders p. Sections whose source field is empty are skipped;
// a nil record renders as the empty string.
func (s *Serializer) Serialize(p *record.Post) string {
	if p == nil {
		return ""
	}
	l := s.labels
	username := p.Username
	if username == "" {
		username = "unknown"
	}
	name := p.DisplayName
	if name == "" {
		name = username
	}

	var lines []string
	add := func(ls ...string) { lines = append(lines, ls...) }

	if p.IsLongForm && p.Title != "" {
		add("# "+p.Title, "", fmt.Sprintf("> %s: **%s** (@%s)", l.Author, name, username))
	} else {
		add("# " + fmt.Sprintf(l.PostHeading, name, username))
	}
	add("")

	if p.Timestamp != "" {
		add(fmt.Sprintf("> %s: %s", l.Published, p.Timestamp), "")
	}

	add("---", "")

	if p.Body != "" {
		if p.IsLongForm {
			add(p.Body)
		} else {
			add(FormatInline(p.Body))
		}
		add("")
	}

	if !p.IsLongForm && len(p.Media) > 0 {
		add("")
		for i, src := range p.Media {
			add(fmt.Sprintf("![%s %d](%s)", l.Image, i+1, src), "")
		}
	}

	if p.VideoThumbnail != "" {
		add("", "> "+l.Video, fmt.Sprintf("> ![%s](%s)", l.VideoThumbnail, p.VideoThumbnail), "")
	}

	if q := p.Quoted; q != nil {
		add("", fmt.Sprintf("> **%s:**", l.Quoted), fmt.Sprintf("> **%s** (@%s)", q.DisplayName, q.Username))
		if q.Body != "" {
			for _, line := range strings.Split(q.Body, "\n") {
				add("> " + line)
			}
		}
		add("")
	}

	add("---", "")

	if line := s.statsLine(p.Stats); line != "" {
		add(line, "")
	}

	if p.SourceURL != "" {
		add(fmt.Sprintf("[%s](%s)", l.Source, p.SourceURL), "")
	}

	doc := strings.Join(lines, "\n")
	if s.frontMatter {
		doc = frontMatter(p) + doc
	}
	return doc
}

func (s *Serializer) statsLine(stats record.Stats) string {
	var parts []string
	for _, stat := range record.StatOrder {
		if v, ok := stats[stat]; ok {
			parts = append(parts, statEmoji[stat]+" "+FormatStat(v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("**%s:** %s", s.labels.Stats, strings.Join(parts, " | "))
}
