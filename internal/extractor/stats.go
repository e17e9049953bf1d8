package extractor

import (
	"regexp"
	"strings"

	"github.com/byteowlz/postmd/internal/content"
	"github.com/byteowlz/postmd/internal/record"
)

var (
	statToken    = regexp.MustCompile(`[\d,.]+[KMkm]?`)
	notViewCount = regexp.MustCompile(`[^0-9KMkm.]`)
)

// statControls lists the action buttons per counter. The second test id is
// what the page shows once the viewer has already acted on the post.
var statControls = []struct {
	stat    record.Stat
	matcher content.Matcher
}{
	{record.Replies, content.TestID("reply")},
	{record.Retweets, content.Any(content.TestID("retweet"), content.TestID("unretweet"))},
	{record.Likes, content.Any(content.TestID("like"), content.TestID("unlike"))},
}

var viewsLink = content.All(content.Tag("a"), content.AttrContains("href", "/analytics"))

func stats(post content.Node) record.Stats {
	out := record.Stats{}
	for _, c := range statControls {
		if btn := content.Find(post, c.matcher); btn != nil {
			out[c.stat] = record.Text(parseStat(content.TextContent(btn)))
		}
	}
	if link := content.Find(post, viewsLink); link != nil {
		if text := content.TextContent(link); text != "" {
			out[record.Views] = record.Text(parseViews(text))
		}
	}
	return out
}

// parseStat returns the leading count of a button label, "0" when the
// label carries no number.
func parseStat(label string) string {
	if m := statToken.FindString(strings.TrimSpace(label)); m != "" {
		return m
	}
	return "0"
}

func parseViews(text string) string {
	if v := notViewCount.ReplaceAllString(text, ""); v != "" {
		return v
	}
	return "0"
}
