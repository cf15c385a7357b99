// Package route360 builds a multilingual static blog: markdown documents under
// content/{type}/{slug}/{lang}.md become paginated indexes, tag archives, post
// and standalone pages, one RSS feed per language, a split sitemap with
// alternate-language links, and schema.org metadata.
//
// Users may replace any page template through ViewFuncs; route360 handles
// loading, planning, querying and writing.
package route360

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/i18n"
	"github.com/eringen/route360/plan"
	"github.com/eringen/route360/views"
)

// ViewFuncs holds the templ components the builder renders each page kind
// with. It is the extension point for custom themes.
type ViewFuncs = views.ViewFuncs

// TagsFile is the tag table below the data directory.
const TagsFile = "tags.json"

// App is the central route360 application. It wires together the content
// loader, the page planner, the store and the templates.
type App struct {
	Config SiteConfig
	Store  *Store
	Views  ViewFuncs

	logger *slog.Logger
}

// Report summarises one build.
type Report struct {
	Documents   int
	Pages       int
	Feeds       int
	SitemapURLs int
	Images      int
	Duration    time.Duration
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Views:  views.Defaults(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Build regenerates the whole output tree. The first failure aborts the build
// and is returned wrapped with the stage it happened in. The new tree is
// written next to the output directory and only replaces it once complete, so
// a failed build leaves the previous output untouched.
func (a *App) Build(ctx context.Context) (Report, error) {
	start := time.Now()
	cfg := a.Config
	var rep Report

	if err := i18n.Validate(i18n.Codes()); err != nil {
		return rep, fmt.Errorf("validate labels: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return rep, err
	}

	tags, err := content.LoadTags(os.DirFS(cfg.DataDir), TagsFile)
	if err != nil {
		return rep, fmt.Errorf("load tags: %w", err)
	}
	docs, err := content.Load(os.DirFS(cfg.ContentDir), content.LoadOptions{
		Languages: cfg.Languages,
		Tags:      tags,
		Logger:    a.logger,
	})
	if err != nil {
		return rep, fmt.Errorf("load content: %w", err)
	}
	rep.Documents = len(docs)
	a.logger.Debug("content loaded", "documents", len(docs), "tags", len(tags))

	if err := a.index(tags, docs); err != nil {
		return rep, fmt.Errorf("index content: %w", err)
	}

	p, err := plan.Build(docs, cfg.Languages)
	if err != nil {
		return rep, fmt.Errorf("plan pages: %w", err)
	}
	a.logger.Debug("pages planned", "pages", len(p.Entries))

	if err := a.publish(ctx, p, docs, &rep); err != nil {
		return rep, err
	}

	rep.Duration = time.Since(start)
	a.logger.Info("build complete",
		"documents", rep.Documents,
		"pages", rep.Pages,
		"feeds", rep.Feeds,
		"sitemap_urls", rep.SitemapURLs,
		"images", rep.Images,
		"duration", rep.Duration.Round(time.Millisecond),
	)
	return rep, nil
}

// publish writes the site into a staging directory beside OutputDir and
// swaps it into place.
func (a *App) publish(ctx context.Context, p plan.Plan, docs []content.Document, rep *Report) error {
	cfg := a.Config
	out := filepath.Clean(cfg.OutputDir)
	if out == "." || out == string(filepath.Separator) {
		return fmt.Errorf("clean output: refusing to replace %q", cfg.OutputDir)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("stage output: %w", err)
	}
	stage, err := os.MkdirTemp(filepath.Dir(out), "."+filepath.Base(out)+"-")
	if err != nil {
		return fmt.Errorf("stage output: %w", err)
	}
	defer func() {
		if stage != "" {
			os.RemoveAll(stage)
		}
	}()
	if err := os.Chmod(stage, 0o755); err != nil {
		return fmt.Errorf("stage output: %w", err)
	}

	images, err := copyStatic(cfg.StaticDir, stage)
	if err != nil {
		return fmt.Errorf("copy static: %w", err)
	}
	rep.Images = len(images)
	if err := writeStylesheet(stage); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}

	r := newRenderer(a, p, images, stage)
	if err := r.renderAll(ctx); err != nil {
		return err
	}
	rep.Pages = len(p.Entries)

	if rep.Feeds, err = r.writeFeeds(docs); err != nil {
		return fmt.Errorf("write feeds: %w", err)
	}
	if rep.SitemapURLs, err = r.writeSitemap(); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}

	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("clean output: %w", err)
	}
	if err := os.Rename(stage, out); err != nil {
		return fmt.Errorf("publish output: %w", err)
	}
	stage = ""
	return nil
}

// index resets the store and fills it with the loaded snapshot.
func (a *App) index(tags []content.Tag, docs []content.Document) error {
	if a.Store == nil {
		s, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return err
		}
		a.Store = s
	}
	if err := a.Store.Reset(); err != nil {
		return err
	}
	for _, t := range tags {
		if err := a.Store.SaveTag(t); err != nil {
			return fmt.Errorf("tag %q: %w", t.Slug, err)
		}
	}
	for _, d := range docs {
		if err := a.Store.SaveDocument(d); err != nil {
			return fmt.Errorf("%s: %w", d.SourcePath, err)
		}
	}
	return nil
}

// Close releases the store. Call it when the app is shutting down.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}
