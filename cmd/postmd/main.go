package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/byteowlz/postmd/internal/config"
	"github.com/byteowlz/postmd/internal/output"
	"github.com/byteowlz/postmd/internal/processor"
	"github.com/byteowlz/postmd/pkg/extractor"
)

// Exit codes for granular error handling
const (
	ExitSuccess      = 0
	ExitExtractError = 2
	ExitInvalidInput = 3
	ExitConfigError  = 4
	ExitFileIOError  = 5
	ExitPartialError = 6 // some inputs failed, some succeeded
)

var (
	cfgFile         string
	outputFile      string
	outputFormat    string
	sourceURL       string
	language        string
	frontMatter     bool
	imageSize       string
	timezone        string
	separator       string
	nullSeparator   bool
	continueOnError bool
	verbose         bool
	quiet           bool
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "postmd [files...]",
	Short: "Convert saved X posts and articles to Markdown",
	Long: `postmd reads the rendered HTML of an X (Twitter) post or article page and
writes it as Markdown: author, time, text, images, quoted post and stats.

Save the page from the browser (or pipe the HTML on stdin) and pass the page
address with --url when the snapshot does not carry it.`,
	Version:       version,
	RunE:          run,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInvalidInput)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/postmd/config.toml)")

	// Input/Output flags
	rootCmd.Flags().StringVarP(&sourceURL, "url", "u", "", "address of the saved page (default: read from page metadata)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output to file or directory (default: stdout)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "markdown", "output format (markdown|text|json|pdf)")
	rootCmd.Flags().StringVar(&separator, "separator", "---", "output separator for multiple inputs")
	rootCmd.Flags().BoolVar(&nullSeparator, "null-separator", false, "use null byte separator (for xargs -0)")

	// Rendering flags
	rootCmd.Flags().StringVar(&language, "lang", "en", "label language (en|zh)")
	rootCmd.Flags().BoolVar(&frontMatter, "front-matter", false, "prepend YAML front matter")
	rootCmd.Flags().StringVar(&imageSize, "image-size", "large", "image size token (small|medium|large|orig)")
	rootCmd.Flags().StringVar(&timezone, "timezone", "Local", "timezone for timestamps (IANA name)")

	// Pipeline flags
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "continue processing remaining inputs on error")

	// System flags
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all non-content output")
}

func run(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		createDefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return exitError(ExitConfigError, "failed to load config: %v", err)
	}

	// CLI flags win over config when explicitly set
	flags := cmd.Flags()
	if flags.Changed("format") || cfg.Output.DefaultFormat == "" {
		cfg.Output.DefaultFormat = outputFormat
	}
	if flags.Changed("lang") {
		cfg.Output.Language = language
	}
	if flags.Changed("front-matter") {
		cfg.Output.FrontMatter = frontMatter
	}
	if flags.Changed("image-size") {
		cfg.Extraction.ImageSize = imageSize
	}
	if flags.Changed("timezone") {
		cfg.Extraction.Timezone = timezone
	}
	if flags.Changed("separator") {
		cfg.Output.Separator = separator
	}
	if flags.Changed("null-separator") {
		cfg.Output.NullSeparator = nullSeparator
	}

	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		return exitError(ExitConfigError, "failed to set up logging: %v", err)
	}
	defer closeLog()

	if _, err := cfg.Location(); err != nil {
		return exitError(ExitConfigError, "%v", err)
	}
	if _, err := processor.Extension(cfg.Output.DefaultFormat); err != nil {
		return exitError(ExitInvalidInput, "%v", err)
	}

	inputs := args
	if len(inputs) == 0 {
		if !stdinHasData() {
			return exitError(ExitInvalidInput, "no input: pass HTML files or pipe a page on stdin")
		}
		inputs = []string{"-"}
	}
	if sourceURL != "" && len(inputs) > 1 {
		return exitError(ExitInvalidInput, "--url applies to a single input, got %d", len(inputs))
	}

	writer, err := output.NewWriter(output.WriterOptions{
		Target:        outputFile,
		Separator:     cfg.Output.Separator,
		NullSeparator: cfg.Output.NullSeparator,
	})
	if err != nil {
		return exitError(ExitFileIOError, "%v", err)
	}
	defer writer.Close()

	ext := extractor.New(cfg)
	hadError := false
	successCount := 0

	for i, input := range inputs {
		log.Debug().Str("input", input).Msgf("processing [%d/%d]", i+1, len(inputs))

		result, err := processInput(cmd.Context(), ext, input)
		if err != nil {
			hadError = true
			log.Error().Err(err).Str("input", input).Msg("extraction failed")
			if !continueOnError {
				if errors.Is(err, extractor.ErrNotFound) {
					return exitError(ExitExtractError, "no post found; open the post's own page before saving it")
				}
				if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
					return exitError(ExitFileIOError, "")
				}
				return exitError(ExitExtractError, "")
			}
			continue
		}

		path, err := writer.Write(result.Filename, []byte(result.Content))
		if err != nil {
			hadError = true
			log.Error().Err(err).Msg("write failed")
			if !continueOnError {
				return exitError(ExitFileIOError, "")
			}
			continue
		}
		successCount++
		if path != "" {
			log.Info().Str("path", path).Str("author", result.Post.Username).Msg("saved")
		}
	}

	if hadError && successCount > 0 {
		return &exitErr{code: ExitPartialError}
	} else if hadError {
		return &exitErr{code: ExitExtractError}
	}
	return nil
}

func processInput(ctx context.Context, ext *extractor.Extractor, input string) (*extractor.ExtractResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	return ext.Extract(ctx, r, extractor.ExtractOptions{
		SourceURL: sourceURL,
		Now:       time.Now(),
	})
}

// setupLogging configures the global zerolog logger. The returned func
// closes the log file, if any.
func setupLogging(cfg config.LoggingConfig) (func(), error) {
	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	closeFn := func() {}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return closeFn, err
		}
		out = zerolog.MultiLevelWriter(out, f)
		closeFn = func() { f.Close() }
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	switch {
	case quiet:
		level = zerolog.Disabled
	case verbose:
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return closeFn, nil
}

// createDefaultConfig writes an example config on first run.
func createDefaultConfig() {
	path := config.DefaultPath()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return
	}
	if err := config.Default().CreateExampleConfig(path); err == nil && !quiet {
		fmt.Fprintf(os.Stderr, "Created config file: %s\n", path)
	}
}

func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string {
	return e.msg
}

func exitError(code int, format string, args ...interface{}) *exitErr {
	msg := fmt.Sprintf(format, args...)
	if msg != "" && !quiet {
		fmt.Fprintf(os.Stderr, "%s\n", msg)
	}
	return &exitErr{code: code, msg: msg}
}
