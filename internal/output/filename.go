// Package output names and writes rendered documents.
package output

import (
	"regexp"
	"strings"
	"time"

	"github.com/byteowlz/postmd/internal/record"
)

const maxNameLength = 100

var (
	unsafeChars = strings.NewReplacer(
		`\`, "", "/", "", ":", "", "*", "", "?", "",
		`"`, "", "<", "", ">", "", "|", "",
	)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Filename derives a file name for p: the article title when there is one,
// otherwise "<name>_<date>". ext includes the leading dot.
func Filename(p *record.Post, now time.Time, ext string) string {
	if ext == "" {
		ext = ".md"
	}
	if p == nil {
		return "post_" + now.Format("2006-01-02") + ext
	}

	if p.IsLongForm && strings.TrimSpace(p.Title) != "" {
		if name := Sanitize(p.Title); name != "" {
			return name + ext
		}
	}

	who := p.DisplayName
	if strings.TrimSpace(who) == "" {
		who = p.Username
	}
	if strings.TrimSpace(who) == "" {
		who = "post"
	}
	return Sanitize(who+"_"+now.Format("2006-01-02")) + ext
}

// Sanitize strips characters that are unsafe in file names, joins
// whitespace runs with underscores and caps the length at 100 runes.
func Sanitize(name string) string {
	name = unsafeChars.Replace(name)
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name
}
