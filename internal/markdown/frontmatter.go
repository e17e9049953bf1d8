package markdown

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/byteowlz/postmd/internal/record"
)

type frontMatterFields struct {
	Type        string                           `yaml:"type"`
	Title       string                           `yaml:"title,omitempty"`
	Author      string                           `yaml:"author"`
	DisplayName string                           `yaml:"display_name,omitempty"`
	URL         string                           `yaml:"url,omitempty"`
	Published   string                           `yaml:"published,omitempty"`
	Media       int                              `yaml:"media,omitempty"`
	Stats       map[record.Stat]record.StatValue `yaml:"stats,omitempty"`
}

// frontMatter renders the YAML block that precedes the document, or ""
// if the record cannot be encoded.
func frontMatter(p *record.Post) string {
	fields := frontMatterFields{
		Type:        "post",
		Title:       p.Title,
		Author:      p.Username,
		DisplayName: p.DisplayName,
		URL:         p.SourceURL,
		Published:   p.Timestamp,
		Media:       len(p.Media),
	}
	if p.IsLongForm {
		fields.Type = "article"
	}
	if len(p.Stats) > 0 {
		fields.Stats = p.Stats
	}

	out, err := yaml.Marshal(fields)
	if err != nil {
		log.Debug().Err(err).Msg("skipping front matter")
		return ""
	}
	return "---\n" + string(out) + "---\n\n"
}
