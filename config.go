package route360

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/eringen/route360/i18n"
)

// SiteConfig holds all configuration for a route360 site.
type SiteConfig struct {
	Name   string `toml:"name"`   // Site name (default "Route360")
	URL    string `toml:"url"`    // Canonical URL (default "http://localhost:3000")
	Author string `toml:"author"` // Author name for JSON-LD

	DefaultLanguage string   `toml:"default_language"` // x-default and 404 language (default "en")
	Languages       []string `toml:"languages"`        // Built languages (default all supported)

	ContentDir   string `toml:"content_dir"`   // Markdown tree (default "content")
	DataDir      string `toml:"data_dir"`      // tags.json lives here (default "data")
	StaticDir    string `toml:"static_dir"`    // Copied to the output root (default "static")
	OutputDir    string `toml:"output_dir"`    // Build output (default "public")
	DatabasePath string `toml:"database_path"` // SQLite content index (default ":memory:")

	Logo    string `toml:"logo"`    // Logo image below the static dir, e.g. "images/logo.png"
	Profile string `toml:"profile"` // Author image below the static dir

	Addr        string `toml:"addr"`        // Preview listen address (default ":3000")
	Concurrency int    `toml:"concurrency"` // Parallel page renders (default NumCPU)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Route360"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = i18n.DefaultLanguage
	}
	if len(c.Languages) == 0 {
		c.Languages = i18n.Codes()
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = ":memory:"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
}

// validate reports configured languages the label table does not know.
func (c *SiteConfig) validate() error {
	for _, l := range c.Languages {
		if !i18n.Supported(l) {
			return fmt.Errorf("config: unsupported language %q", l)
		}
	}
	return nil
}

// envOverrides maps environment variables onto config fields.
var envOverrides = []struct {
	key   string
	field func(*SiteConfig) *string
}{
	{"SITE_NAME", func(c *SiteConfig) *string { return &c.Name }},
	{"SITE_URL", func(c *SiteConfig) *string { return &c.URL }},
	{"SITE_AUTHOR", func(c *SiteConfig) *string { return &c.Author }},
	{"OUTPUT_DIR", func(c *SiteConfig) *string { return &c.OutputDir }},
	{"DATABASE_PATH", func(c *SiteConfig) *string { return &c.DatabasePath }},
	{"ADDR", func(c *SiteConfig) *string { return &c.Addr }},
}

// LoadConfig reads the TOML file at path, then applies environment overrides.
// A .env file next to the working directory is loaded first when present;
// variables already set in the environment win over it. A missing config file
// is not an error.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: load .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
	case err != nil:
		return cfg, fmt.Errorf("config: %w", err)
	default:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			*o.field(&cfg) = v
		}
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithViews replaces the built-in theme. Nil components keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v.WithDefaults()
	}
}

// WithLogger sets the logger used for build and server messages.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithOutputDir overrides the configured output directory.
func WithOutputDir(dir string) Option {
	return func(a *App) {
		a.Config.OutputDir = dir
	}
}
