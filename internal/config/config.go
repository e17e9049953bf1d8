package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "postmd"

type Config struct {
	Extraction ExtractionConfig `mapstructure:"extraction" toml:"extraction"`
	Output     OutputConfig     `mapstructure:"output" toml:"output"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging"`
}

type ExtractionConfig struct {
	ImageSize string `mapstructure:"image_size" toml:"image_size"`
	ImageAlt  string `mapstructure:"image_alt" toml:"image_alt"`
	Timezone  string `mapstructure:"timezone" toml:"timezone"`
}

type OutputConfig struct {
	DefaultFormat string `mapstructure:"default_format" toml:"default_format"`
	Language      string `mapstructure:"language" toml:"language"`
	FrontMatter   bool   `mapstructure:"front_matter" toml:"front_matter"`
	LineWidth     int    `mapstructure:"line_width" toml:"line_width"`
	Separator     string `mapstructure:"separator" toml:"separator"`
	NullSeparator bool   `mapstructure:"null_separator" toml:"null_separator"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			ImageSize: "large",
			ImageAlt:  "Image",
			Timezone:  "Local",
		},
		Output: OutputConfig{
			DefaultFormat: "markdown",
			Language:      "en",
			FrontMatter:   false,
			LineWidth:     80,
			Separator:     "---",
			NullSeparator: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/postmd/config.toml, or "" when no
// home directory can be found.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName, "config.toml")
}

// Load reads configFile (or the default location) on top of Default().
// A missing config file is not an error. Environment variables prefixed
// POSTMD_ override file values, e.g. POSTMD_OUTPUT_LANGUAGE=zh; a .env file
// in the working directory is loaded first.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(configFile)
	} else {
		path := DefaultPath()
		if path == "" {
			return cfg, fmt.Errorf("error finding home directory")
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigType("toml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("POSTMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides are seen by
// Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("extraction.image_size", cfg.Extraction.ImageSize)
	v.SetDefault("extraction.image_alt", cfg.Extraction.ImageAlt)
	v.SetDefault("extraction.timezone", cfg.Extraction.Timezone)
	v.SetDefault("output.default_format", cfg.Output.DefaultFormat)
	v.SetDefault("output.language", cfg.Output.Language)
	v.SetDefault("output.front_matter", cfg.Output.FrontMatter)
	v.SetDefault("output.line_width", cfg.Output.LineWidth)
	v.SetDefault("output.separator", cfg.Output.Separator)
	v.SetDefault("output.null_separator", cfg.Output.NullSeparator)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
}

// Location resolves the configured timezone. "" and "Local" mean the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Extraction.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (c *Config) CreateExampleConfig(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	exampleContent := `# postmd configuration file

[extraction]
image_size = "large"      # size token for media URLs: small, medium, large, orig
image_alt = "Image"       # alt text of images inlined into article bodies
timezone = "Local"        # IANA zone for timestamps, e.g. "Asia/Shanghai"

[output]
default_format = "markdown"  # markdown, text, json, pdf
language = "en"              # label language: en, zh
front_matter = false         # prepend YAML front matter
line_width = 80              # wrap width for text output (0 = unlimited)
separator = "---"            # separator between documents on stdout
null_separator = false       # use NUL bytes as separators

[logging]
level = "info"            # debug, info, warn, error
file = ""                 # Log file path (empty = stderr only)
`

	return os.WriteFile(configPath, []byte(exampleContent), 0644)
}
