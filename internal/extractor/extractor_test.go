package extractor

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/byteowlz/postmd/internal/content"
	"github.com/byteowlz/postmd/internal/record"
)

const statusPage = `<html><head><title>Alice on X</title></head><body>
<article data-testid="tweet">
  <div data-testid="User-Name">
    <a href="/alice"><span>Alice Example</span></a>
    <a href="/alice"><span>@alice</span></a>
  </div>
  <a href="/alice/status/1"><time datetime="2024-01-15T14:30:00.000Z">Jan 15</time></a>
  <div data-testid="tweetText"><span>hello </span><a href="/bob">@bob</a><span> line one</span><br><span>line two</span><img alt="🎉" src="https://abs-0.twimg.com/emoji/v2/svg/1f389.svg"></div>
  <div data-testid="tweetPhoto"><img src="https://pbs.twimg.com/media/A1?format=jpg&amp;name=small"></div>
  <div data-testid="tweetPhoto"><img src="https://pbs.twimg.com/media/A1?format=jpg&amp;name=medium"></div>
  <div data-testid="tweetPhoto"><img src="https://pbs.twimg.com/media/B2?format=png&amp;name=900x900"></div>
  <div data-testid="videoPlayer"><video poster="https://pbs.twimg.com/ext_tw_video_thumb/9/pu/img/v.jpg"></video></div>
  <div data-testid="quoteTweet">
    <div data-testid="User-Name"><span>Bob Builder</span><span>@bob</span></div>
    <a href="/bob/status/99"><span>2h</span></a>
    <div data-testid="tweetText">quoted line<br>second</div>
  </div>
  <div role="group">
    <button data-testid="reply" aria-label="12 Replies"><span>12</span></button>
    <button data-testid="retweet"><span>1.2K</span></button>
    <button data-testid="unlike"><span>3,456</span></button>
    <a href="/alice/status/1/analytics"><span>45.6K</span><span> Views</span></a>
  </div>
</article>
</body></html>`

const articlePage = `<html><body>
<article data-testid="tweet">
  <div data-testid="User-Name"><a href="/writer"><span>Writer Name</span></a><span>@writer</span></div>
  <time datetime="2024-03-01T09:05:00Z">Mar 1</time>
  <button data-testid="reply">5</button>
  <button data-testid="like">1,024</button>
</article>
<div data-testid="twitter-article-title"> My Article </div>
<div data-testid="longformRichTextComponent">
  <div>
    <div><span>Opening paragraph that is short</span></div>
    <section><img src="https://pbs.twimg.com/media/C3?format=jpg&amp;name=small"></section>
    <div>Intro</div>
    <div>Another short line</div>
    <blockquote>Quoted one<br>Quoted two</blockquote>
    <ul><li>first</li><li>second</li></ul>
    <ol><li>alpha</li><li>beta</li></ol>
    <div>Emoji only line</div>
    <div>   </div>
  </div>
</div>
</body></html>`

func parse(t *testing.T, html string) content.Node {
	t.Helper()
	root, err := content.ParseString(html)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return root
}

func newTestExtractor() *Extractor {
	return New(Options{Location: time.UTC})
}

func TestExtract_StatusPage(t *testing.T) {
	post, err := newTestExtractor().Extract(parse(t, statusPage), "https://x.com/alice/status/1")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if post.Username != "alice" {
		t.Errorf("Username = %q, want alice", post.Username)
	}
	if post.DisplayName != "Alice Example" {
		t.Errorf("DisplayName = %q", post.DisplayName)
	}
	if post.IsLongForm || post.Title != "" {
		t.Errorf("standard post reported as long-form: %+v", post)
	}
	if want := "hello @bob line one\nline two🎉"; post.Body != want {
		t.Errorf("Body = %q, want %q", post.Body, want)
	}
	if post.Timestamp != "2024-01-15 14:30" {
		t.Errorf("Timestamp = %q", post.Timestamp)
	}

	wantMedia := []string{
		"https://pbs.twimg.com/media/A1?format=jpg&name=large",
		"https://pbs.twimg.com/media/B2?format=png&name=large",
	}
	if !reflect.DeepEqual(post.Media, wantMedia) {
		t.Errorf("Media = %v, want %v", post.Media, wantMedia)
	}
	if post.VideoThumbnail != "https://pbs.twimg.com/ext_tw_video_thumb/9/pu/img/v.jpg" {
		t.Errorf("VideoThumbnail = %q", post.VideoThumbnail)
	}

	wantQuote := &record.Quoted{Username: "bob", DisplayName: "Bob Builder", Body: "quoted line\nsecond"}
	if !reflect.DeepEqual(post.Quoted, wantQuote) {
		t.Errorf("Quoted = %+v, want %+v", post.Quoted, wantQuote)
	}

	wantStats := map[record.Stat]string{
		record.Replies:  "12",
		record.Retweets: "1.2K",
		record.Likes:    "3,456",
		record.Views:    "45.6K",
	}
	for stat, want := range wantStats {
		got, ok := post.Stats[stat]
		if !ok {
			t.Errorf("missing stat %s", stat)
			continue
		}
		if !got.IsText() || got.Raw() != want {
			t.Errorf("stat %s = %q, want %q", stat, got.Raw(), want)
		}
	}
}

func TestExtract_NotFound(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
	}{
		{"post outside status page", statusPage, "https://x.com/home"},
		{"no post container", "<html><body><p>Something went wrong</p></body></html>", "https://x.com/alice/status/1"},
		{"empty document", "", "https://x.com/alice/status/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := newTestExtractor().Extract(parse(t, tt.html), tt.url)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got post=%v err=%v", post, err)
			}
		})
	}
}

func TestExtract_LongForm(t *testing.T) {
	post, err := newTestExtractor().Extract(parse(t, articlePage), "https://x.com/i/article/123")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !post.IsLongForm {
		t.Fatal("expected long-form post")
	}
	if post.Title != "My Article" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Username != "writer" || post.DisplayName != "Writer Name" {
		t.Errorf("author = %q (%q)", post.DisplayName, post.Username)
	}
	if post.Timestamp != "2024-03-01 09:05" {
		t.Errorf("Timestamp = %q", post.Timestamp)
	}
	if len(post.Media) != 0 || post.Quoted != nil || post.VideoThumbnail != "" {
		t.Errorf("long-form should carry no media or quote: %+v", post)
	}
	if got := post.Stats[record.Likes].Raw(); got != "1,024" {
		t.Errorf("likes = %q", got)
	}
	if _, ok := post.Stats[record.Views]; ok {
		t.Error("views should be absent when the page has no analytics link")
	}

	want := "Opening paragraph that is short\n\n" +
		"![Image](https://pbs.twimg.com/media/C3?format=jpg&name=large)\n\n" +
		"### Intro\n\n" +
		"Another short line\n\n" +
		"> Quoted one\n> Quoted two\n\n" +
		"- first\n- second\n\n" +
		"1. alpha\n2. beta\n\n" +
		"Emoji only line"
	if post.Body != want {
		t.Errorf("Body mismatch\n got: %q\nwant: %q", post.Body, want)
	}
}

func TestExtract_LongFormWithoutAuthorCard(t *testing.T) {
	page := `<html><body>
<div data-testid="twitterArticleRichTextView"><p>Just text</p></div>
</body></html>`

	post, err := newTestExtractor().Extract(parse(t, page), "https://x.com/i/article/7")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if post.Username != "unknown" || post.DisplayName != "unknown" {
		t.Errorf("author = %q (%q), want unknown", post.DisplayName, post.Username)
	}
	if post.Body != "Just text" {
		t.Errorf("Body = %q", post.Body)
	}
	if len(post.Stats) != 0 {
		t.Errorf("expected no stats, got %v", post.Stats)
	}
}

func TestExtract_BuiltTree(t *testing.T) {
	el := content.NewElement
	txt := content.NewText
	root := el("div", nil,
		el("article", content.Attrs{"data-testid": "tweet"},
			el("div", content.Attrs{"data-testid": "User-Name"},
				el("a", content.Attrs{"href": "/carol/status/5"}, el("span", nil, txt("@carol"))),
			),
			el("time", content.Attrs{"datetime": "not a date"}, txt(" 3h ")),
			el("div", content.Attrs{"data-testid": "tweetText"}, txt("first"), el("br", nil), txt("\n\n\n\nlast  ")),
			el("div", content.Attrs{"data-testid": "videoPlayer"},
				el("img", content.Attrs{"src": "https://pbs.twimg.com/amplify_video_thumb/1/img/x.jpg"}),
			),
			el("button", content.Attrs{"data-testid": "reply"}, txt("Reply")),
			el("a", content.Attrs{"href": "/carol/status/5/analytics"}, txt("")),
		),
	)

	// The URL has no handle, so the author card link provides it.
	post, err := newTestExtractor().Extract(root, "https://example.com/carol/status/5?s=20")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if post.Username != "carol" {
		t.Errorf("Username = %q, want carol", post.Username)
	}
	if post.DisplayName != "carol" {
		t.Errorf("DisplayName = %q, want username fallback", post.DisplayName)
	}
	if post.Timestamp != "3h" {
		t.Errorf("Timestamp = %q, want visible text fallback", post.Timestamp)
	}
	if post.Body != "first\n\nlast" {
		t.Errorf("Body = %q", post.Body)
	}
	if post.VideoThumbnail != "https://pbs.twimg.com/amplify_video_thumb/1/img/x.jpg" {
		t.Errorf("VideoThumbnail = %q", post.VideoThumbnail)
	}
	if post.Quoted != nil {
		t.Errorf("Quoted = %+v, want nil without a quote embed", post.Quoted)
	}
	if post.Media == nil || len(post.Media) != 0 {
		t.Errorf("Media = %#v, want empty list", post.Media)
	}
	if got := post.Stats[record.Replies].Raw(); got != "0" {
		t.Errorf("replies = %q, want 0", got)
	}
	if _, ok := post.Stats[record.Views]; ok {
		t.Error("views with empty link text should be absent")
	}
}

func TestExtract_IsDeterministic(t *testing.T) {
	e := newTestExtractor()
	root := parse(t, statusPage)
	first, err := e.Extract(root, "https://x.com/alice/status/1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Extract(root, "https://x.com/alice/status/1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated extraction produced different records")
	}
}

func TestClassifyShortBlock(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		headerClass  bool
		index        int
		prevHadImage bool
		want         blockKind
	}{
		{"short after image", "Intro", false, 2, true, subHeadingBlock},
		{"short without image", "Intro", false, 2, false, paragraphBlock},
		{"first block never candidate", "Intro", false, 0, true, paragraphBlock},
		{"header class at index zero", "Intro", true, 0, true, subHeadingBlock},
		{"multi-line", "one\ntwo", false, 3, true, paragraphBlock},
		{"too long under image", "This caption is short enough to be a candidate but not a heading", false, 1, true, paragraphBlock},
		{"long header class", "This caption is short enough to be a candidate but not a heading", true, 1, true, paragraphBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyShortBlock(tt.text, tt.headerClass, tt.index, tt.prevHadImage)
			if got != tt.want {
				t.Errorf("classifyShortBlock(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestArticleBody_Blocks(t *testing.T) {
	el := content.NewElement
	txt := content.NewText
	img := func(src string) content.Node { return el("img", content.Attrs{"src": src}) }

	tests := []struct {
		name   string
		blocks []content.Node
		want   string
	}{
		{
			name: "short text after image is a sub-heading",
			blocks: []content.Node{
				el("div", nil, img("https://pbs.twimg.com/media/P1?format=jpg&name=small")),
				el("div", nil, txt("Intro")),
			},
			want: "![Image](https://pbs.twimg.com/media/P1?format=jpg&name=large)\n\n### Intro",
		},
		{
			name: "short text after text is a paragraph",
			blocks: []content.Node{
				el("div", nil, txt("Some opening words")),
				el("div", nil, txt("Intro")),
			},
			want: "Some opening words\n\nIntro",
		},
		{
			name: "avatar image is not media",
			blocks: []content.Node{
				el("div", nil, txt("Lead")),
				el("div", nil, img("https://pbs.twimg.com/profile_images/1/a.jpg"), txt("Caption")),
				el("div", nil, txt("After avatar")),
			},
			want: "Lead\n\nCaption\n\n### After avatar",
		},
		{
			name: "blockquote class",
			blocks: []content.Node{
				el("div", content.Attrs{"class": "public-DraftStyleDefault-blockquote"}, txt("wise words")),
			},
			want: "> wise words",
		},
		{
			name: "header class without image stays paragraph",
			blocks: []content.Node{
				el("div", content.Attrs{"class": "longform-header-two"}, txt("Heading")),
			},
			want: "Heading",
		},
		{
			name: "empty blocks dropped",
			blocks: []content.Node{
				el("div", nil),
				el("div", nil, txt("  ")),
				el("div", nil, txt("only")),
			},
			want: "only",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := el("div", nil, el("div", nil, tt.blocks...))
			if got := e.articleBody(container); got != tt.want {
				t.Errorf("articleBody = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArticleBody_NoWrapper(t *testing.T) {
	container := content.NewElement("div", nil, content.NewText("  plain\n\n\n\nbody  "))
	if got := newTestExtractor().articleBody(container); got != "plain body" {
		t.Errorf("articleBody = %q", got)
	}
}

func TestHighRes(t *testing.T) {
	tests := []struct {
		src  string
		size string
		want string
	}{
		{"https://pbs.twimg.com/media/A?format=jpg&name=small", "large", "https://pbs.twimg.com/media/A?format=jpg&name=large"},
		{"https://pbs.twimg.com/media/A?name=thumb&format=webp", "orig", "https://pbs.twimg.com/media/A?name=orig&format=webp"},
		{"https://pbs.twimg.com/media/A.jpg", "large", "https://pbs.twimg.com/media/A.jpg"},
		{"https://pbs.twimg.com/media/A?format=jpg&name=360x360", "", "https://pbs.twimg.com/media/A?format=jpg&name=large"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := HighRes(tt.src, tt.size)
			if got != tt.want {
				t.Errorf("HighRes = %q, want %q", got, tt.want)
			}
			if again := HighRes(got, tt.size); again != got {
				t.Errorf("HighRes not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseStat(t *testing.T) {
	tests := map[string]string{
		"12":          "12",
		" 1.2K ":      "1.2K",
		"3,456":       "3,456",
		"2m":          "2m",
		"Reply":       "0",
		"":            "0",
		"7 Reposts":   "7",
		"4.5M Likes":  "4.5M",
		"views 1,000": "1,000",
	}
	for in, want := range tests {
		if got := parseStat(in); got != want {
			t.Errorf("parseStat(%q) = %q, want %q", in, got, want)
		}
	}

	if got := parseViews("12,345 Views"); got != "12345" {
		t.Errorf("parseViews = %q", got)
	}
	if got := parseViews("Views"); got != "0" {
		t.Errorf("parseViews without digits = %q, want 0", got)
	}
}
