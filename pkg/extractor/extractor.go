package extractor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/byteowlz/postmd/internal/config"
	coreextractor "github.com/byteowlz/postmd/internal/extractor"
	"github.com/byteowlz/postmd/internal/markdown"
	"github.com/byteowlz/postmd/internal/output"
	"github.com/byteowlz/postmd/internal/processor"
	"github.com/byteowlz/postmd/internal/record"
)

// ErrNotFound is returned when the snapshot holds no post.
var ErrNotFound = coreextractor.ErrNotFound

type Extractor struct {
	config    *config.Config
	processor *processor.ContentProcessor
}

type ExtractOptions struct {
	// SourceURL of the saved page; read from the page metadata when empty.
	SourceURL string
	Format    string
	// Now dates fallback filenames. Defaults to time.Now.
	Now time.Time
}

type ExtractResult struct {
	URL            string
	Title          string
	Filename       string
	Content        string
	Post           *record.Post
	ProcessingTime time.Duration
	ContentLength  int
}

// New builds an Extractor from cfg. An unknown timezone falls back to the
// system zone.
func New(cfg *config.Config) *Extractor {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	ext := coreextractor.New(coreextractor.Options{
		Location:  loc,
		ImageSize: cfg.Extraction.ImageSize,
		ImageAlt:  cfg.Extraction.ImageAlt,
	})
	ser := markdown.New(markdown.Options{
		Labels:      markdown.LabelsFor(cfg.Output.Language),
		FrontMatter: cfg.Output.FrontMatter,
	})
	return &Extractor{
		config:    cfg,
		processor: processor.NewContentProcessor(ext, ser),
	}
}

// Extract reads one HTML snapshot from r and renders the post it contains.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, opts ExtractOptions) (*ExtractResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = e.config.Output.DefaultFormat
	}

	processed, err := e.processor.ProcessFromReader(r, processor.ProcessOptions{
		SourceURL: opts.SourceURL,
		Format:    format,
		LineWidth: e.config.Output.LineWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process content: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &ExtractResult{
		URL:            processed.URL,
		Title:          processed.Post.Title,
		Filename:       output.Filename(processed.Post, now, processed.Extension),
		Content:        string(processed.Output),
		Post:           processed.Post,
		ProcessingTime: time.Since(start),
		ContentLength:  len(processed.Output),
	}, nil
}
