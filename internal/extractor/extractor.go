package extractor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/byteowlz/postmd/internal/content"
	"github.com/byteowlz/postmd/internal/record"
)

// ErrNotFound is returned when no post container can be located.
var ErrNotFound = errors.New("post not found")

const (
	DefaultImageSize = "large"
	DefaultImageAlt  = "Image"
	TimestampLayout  = "2006-01-02 15:04"
)

// Page signatures.
var (
	// Checked in order; the rich-text view wraps older article layouts.
	longFormContainers = []content.Matcher{
		content.TestID("longformRichTextComponent"),
		content.TestID("twitterArticleRichTextView"),
	}
	postContainer  = content.All(content.Tag("article"), content.TestID("tweet"))
	authorIdentity = content.TestID("User-Name")
	postText       = content.TestID("tweetText")
	photo          = content.TestID("tweetPhoto")
	videoPlayer    = content.TestID("videoPlayer")
	quoteEmbed     = content.TestID("quoteTweet")
	articleTitle   = content.TestID("twitter-article-title")
)

type Options struct {
	// Location is the zone timestamps are rendered in. Defaults to time.Local.
	Location *time.Location
	// ImageSize is the size token high-resolution media URLs request.
	ImageSize string
	// ImageAlt is the alt text of images inlined into long-form bodies.
	ImageAlt string
}

// Extractor turns a content tree into a record.Post. It keeps no state
// between calls and is safe for concurrent use.
type Extractor struct {
	opts Options
}

func New(opts Options) *Extractor {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ImageSize == "" {
		opts.ImageSize = DefaultImageSize
	}
	if opts.ImageAlt == "" {
		opts.ImageAlt = DefaultImageAlt
	}
	return &Extractor{opts: opts}
}

// Extract reads the post or long-form article under root. sourceURL is the
// address of the page the tree was rendered from.
func (e *Extractor) Extract(root content.Node, sourceURL string) (*record.Post, error) {
	if container := findLongForm(root); container != nil {
		log.Debug().Str("url", sourceURL).Msg("long-form article detected")
		return e.extractLongForm(root, container, sourceURL), nil
	}

	post := findPost(root, sourceURL)
	if post == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceURL)
	}

	return &record.Post{
		SourceURL:      sourceURL,
		Username:       username(post, sourceURL),
		DisplayName:    displayName(post, sourceURL),
		Body:           normalizeBody(bodyText(post)),
		Timestamp:      e.timestamp(post),
		Media:          e.media(post),
		VideoThumbnail: videoThumbnail(post),
		Quoted:         quoted(post),
		Stats:          stats(post),
	}, nil
}

func findLongForm(root content.Node) content.Node {
	for _, m := range longFormContainers {
		if n := content.Find(root, m); n != nil {
			return n
		}
	}
	return nil
}

// findPost returns the first post container on a status (detail) page.
func findPost(root content.Node, sourceURL string) content.Node {
	if !strings.Contains(sourceURL, "/status/") {
		return nil
	}
	return content.Find(root, postContainer)
}

func (e *Extractor) extractLongForm(root, container content.Node, sourceURL string) *record.Post {
	// The author card sits outside the article body; fall back to the
	// whole page when it is missing.
	author := content.Find(root, postContainer)
	scope := author
	if scope == nil {
		scope = root
	}

	p := &record.Post{
		SourceURL:   sourceURL,
		Username:    username(scope, sourceURL),
		DisplayName: displayName(scope, sourceURL),
		Title:       strings.TrimSpace(content.InnerText(content.Find(root, articleTitle))),
		Body:        e.articleBody(container),
		Timestamp:   e.timestamp(scope),
		Media:       []string{},
		Stats:       record.Stats{},
		IsLongForm:  true,
	}
	if author != nil {
		p.Stats = stats(author)
	}
	log.Debug().Int("length", len(p.Body)).Msg("extracted article body")
	return p
}
