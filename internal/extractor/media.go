package extractor

import (
	"regexp"
	"strings"
)

// mediaHost marks images that belong to the post rather than avatars,
// emoji or link cards.
const mediaHost = "pbs.twimg.com/media"

var sizeParam = regexp.MustCompile(`([?&]name=)[^&#]*`)

// HighRes rewrites the name= size token of a media URL to size. URLs
// without a size token are returned unchanged, so the rewrite is idempotent.
func HighRes(src, size string) string {
	if size == "" {
		size = DefaultImageSize
	}
	return sizeParam.ReplaceAllString(src, "${1}"+size)
}

func isMediaURL(src string) bool {
	return strings.Contains(src, mediaHost)
}
