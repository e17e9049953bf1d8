package markdown

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/byteowlz/postmd/internal/record"
)

var (
	mention = regexp.MustCompile(`(^|[^\p{L}\p{N}_])@([A-Za-z0-9_]+)`)
	hashtag = regexp.MustCompile(`(^|[^\p{L}\p{N}_&/])#([\p{L}\p{N}_]+)`)
)

// FormatInline bolds @mentions and #hashtags.
func FormatInline(text string) string {
	text = mention.ReplaceAllString(text, "$1**@$2**")
	return hashtag.ReplaceAllString(text, "$1**#$2**")
}

// FormatCount abbreviates large counts: 999, 1.0K, 1.5M.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatStat renders a stat value. Text copied from the page is already
// abbreviated and passes through unchanged.
func FormatStat(v record.StatValue) string {
	if n, ok := v.Number(); ok {
		return FormatCount(n)
	}
	return v.Raw()
}
