package route360

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/feed"
	"github.com/eringen/route360/i18n"
	"github.com/eringen/route360/markdown"
	"github.com/eringen/route360/plan"
	"github.com/eringen/route360/seo"
	"github.com/eringen/route360/views"
)

const (
	cardExcerptLength = 120
	notFoundFile      = "404.html"
	isoDate           = "2006-01-02"
)

// renderer turns plan entries into files below dir, querying the store for
// page data.
type renderer struct {
	app        *App
	plan       plan.Plan
	dir        string
	site       seo.Site
	alternates map[string][]string

	warned sync.Map // "lang/tag" of archives already reported as undefined
}

func newRenderer(a *App, p plan.Plan, images map[string]seo.Image, dir string) *renderer {
	cfg := a.Config
	return &renderer{
		app:  a,
		plan: p,
		dir:  dir,
		site: seo.Site{
			Name:        cfg.Name,
			URL:         cfg.URL,
			Author:      cfg.Author,
			DefaultLang: cfg.DefaultLanguage,
			Logo:        siteImage(cfg.Logo, images),
			Profile:     siteImage(cfg.Profile, images),
		},
		alternates: p.Alternates(),
	}
}

// siteImage resolves a configured image path to its processed dimensions.
// Unknown images keep their path with zero dimensions.
func siteImage(rel string, images map[string]seo.Image) seo.Image {
	if rel == "" {
		return seo.Image{}
	}
	p := "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if img, ok := images[p]; ok {
		return img
	}
	return seo.Image{Path: p}
}

// renderAll renders every plan entry and the 404 page in parallel. The first
// error cancels the remaining renders.
func (r *renderer) renderAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.app.Config.Concurrency)
	for _, e := range r.plan.Entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := r.component(e)
			if err != nil {
				return fmt.Errorf("render %s: %w", e.Path, err)
			}
			if err := r.writeComponent(ctx, e.Path, c); err != nil {
				return fmt.Errorf("render %s: %w", e.Path, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		c := r.app.Views.NotFound(views.NotFoundPage{Chrome: r.chrome(r.site.DefaultLang, "")})
		if err := r.writeComponent(ctx, "/"+notFoundFile, c); err != nil {
			return fmt.Errorf("render 404: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (r *renderer) component(e plan.Entry) (templ.Component, error) {
	switch e.Kind {
	case plan.KindPost, plan.KindPage:
		a, err := r.article(e)
		if err != nil {
			return nil, err
		}
		if e.Kind == plan.KindPost {
			return r.app.Views.Post(a), nil
		}
		return r.app.Views.Page(a), nil
	case plan.KindIndex:
		l, err := r.listing(e)
		if err != nil {
			return nil, err
		}
		return r.app.Views.Index(l), nil
	case plan.KindTag:
		l, err := r.listing(e)
		if err != nil {
			return nil, err
		}
		return r.app.Views.Tag(l), nil
	}
	return nil, fmt.Errorf("unknown page kind %q", e.Kind)
}

func (r *renderer) head(e plan.Entry, doc *content.Document, tagTitle string) seo.Head {
	return seo.Build(r.site, seo.Page{
		Entry:     e,
		Languages: r.alternates[e.Path],
		Document:  doc,
		TagTitle:  tagTitle,
	})
}

func (r *renderer) article(e plan.Entry) (views.Article, error) {
	d, err := r.app.Store.GetDocument(e.DocumentID)
	if err != nil {
		return views.Article{}, err
	}
	a := views.Article{
		Head:     r.head(e, &d, ""),
		Chrome:   r.chrome(e.Language, e.Path),
		Title:    d.Title,
		HTML:     d.HTML,
		Tags:     r.tagLinks(e.Language, d.Tags),
		Previous: e.Previous,
		Next:     e.Next,
	}
	if !d.Date.IsZero() {
		a.DateTime = d.Date.Format(isoDate)
		a.Date = i18n.FormatDate(e.Language, d.Date)
	}
	if d.Updated() {
		a.UpdatedTime = d.LastMod.Format(isoDate)
		a.Updated = i18n.FormatDate(e.Language, d.LastMod)
	}
	if e.Kind == plan.KindPost {
		a.Contents = markdown.Outline(d.Headings, 2, 3)
	}
	return a, nil
}

func (r *renderer) listing(e plan.Entry) (views.Listing, error) {
	if e.Window == nil {
		return views.Listing{}, errors.New("listing without a window")
	}
	lang := e.Language
	q := PostQuery{Language: lang, Skip: e.Window.Skip, Limit: e.Window.Limit}
	var heading, title string
	if e.Kind == plan.KindTag {
		q.Tag = e.Slug
		title = r.tagTitle(lang, e.Slug)
		heading = i18n.Get(lang).ArchiveTitleText(title)
	}
	total, err := r.app.Store.CountPosts(q)
	if err != nil {
		return views.Listing{}, fmt.Errorf("count posts: %w", err)
	}
	if e.Window.Skip >= total {
		return views.Listing{}, fmt.Errorf("window starts at post %d but only %d are stored", e.Window.Skip+1, total)
	}
	posts, err := r.app.Store.ListPosts(q)
	if err != nil {
		return views.Listing{}, fmt.Errorf("list posts: %w", err)
	}
	l := views.Listing{
		Head:    r.head(e, nil, title),
		Chrome:  r.chrome(lang, e.Path),
		Heading: heading,
		Tag:     q.Tag,
		Window:  *e.Window,
	}
	for _, d := range posts {
		l.Posts = append(l.Posts, views.PostCard{
			Title:    d.Title,
			Path:     plan.PostPath(d.Language, d.Slug),
			DateTime: d.Date.Format(isoDate),
			Date:     i18n.FormatDate(lang, d.Date),
			Excerpt:  d.Excerpt(cardExcerptLength),
			Tags:     r.tagLinks(lang, d.Tags),
		})
	}
	return l, nil
}

// tagTitle looks a tag up in the store. An undefined tag is titled with its
// slug and reported once per language.
func (r *renderer) tagTitle(lang, slug string) string {
	t, err := r.app.Store.GetTag(slug)
	if err == nil && t.Title != "" {
		return t.Title
	}
	if _, seen := r.warned.LoadOrStore(lang+"/"+slug, true); !seen {
		r.app.logger.Warn("tag has no definition, using its slug as title", "tag", slug, "language", lang, "err", err)
	}
	return slug
}

func (r *renderer) tagLinks(lang string, refs []content.TagRef) []views.TagLink {
	out := make([]views.TagLink, 0, len(refs))
	for _, t := range refs {
		title := t.Title
		if title == "" {
			title = t.Slug
		}
		out = append(out, views.TagLink{Slug: t.Slug, Title: title, Path: plan.TagPath(lang, t.Slug, 1)})
	}
	return out
}

// chrome builds the site frame for lang. The language switcher points at the
// same page in each language when it exists and at that language's home page
// otherwise.
func (r *renderer) chrome(lang, path string) views.Chrome {
	c := views.Chrome{
		SiteName: r.site.Name,
		Labels:   i18n.Get(lang),
		HomePath: plan.IndexPath(lang, 1),
		FeedPath: feed.Path(lang),
	}
	for _, l := range r.app.Config.Languages {
		href := plan.IndexPath(l, 1)
		if path != "" {
			if e, ok := r.plan.Lookup(i18n.SwapLang(path, l)); ok && !e.Draft {
				href = e.Path
			}
		}
		c.Languages = append(c.Languages, views.LangLink{
			Code:    l,
			Name:    i18n.Get(l).Name,
			Href:    href,
			Current: l == lang,
		})
	}
	return c
}

func (r *renderer) writeComponent(ctx context.Context, urlPath string, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return err
	}
	return writeOutput(r.dir, urlPath, buf.Bytes())
}

// writeFeeds writes one RSS feed per language.
func (r *renderer) writeFeeds(docs []content.Document) (int, error) {
	base := r.site.URL
	n := 0
	for _, lang := range r.app.Config.Languages {
		ch := feed.Channel{
			Title:       r.site.Name,
			Link:        plan.URL(base, plan.IndexPath(lang, 1)),
			Description: i18n.Get(lang).Description,
			Language:    lang,
			Self:        plan.URL(base, feed.Path(lang)),
		}
		var buf bytes.Buffer
		if err := feed.EncodeRSS(&buf, ch, feed.Select(docs, base, lang, feed.Limit)); err != nil {
			return n, fmt.Errorf("%s: %w", lang, err)
		}
		if err := writeOutput(r.dir, feed.Path(lang), buf.Bytes()); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// writeSitemap writes the sitemap files, their index and robots.txt. It
// returns the number of URLs listed.
func (r *renderer) writeSitemap() (int, error) {
	base := r.site.URL
	out := r.dir
	entries := feed.Sitemap(r.plan, base, r.site.DefaultLang)
	var locs []string
	for i, chunk := range feed.Chunk(entries, feed.MaxURLs) {
		var buf bytes.Buffer
		if err := feed.EncodeURLSet(&buf, chunk); err != nil {
			return 0, err
		}
		if err := writeOutput(out, feed.ChunkPath(i), buf.Bytes()); err != nil {
			return 0, err
		}
		locs = append(locs, plan.URL(base, feed.ChunkPath(i)))
	}
	var buf bytes.Buffer
	if err := feed.EncodeIndex(&buf, locs); err != nil {
		return 0, err
	}
	if err := writeOutput(out, feed.IndexPath, buf.Bytes()); err != nil {
		return 0, err
	}
	if err := writeOutput(out, "/robots.txt", []byte(feed.Robots(base))); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// outputFile maps a URL path to a file below dir: directory paths get an
// index.html.
func outputFile(dir, urlPath string) string {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return filepath.Join(dir, filepath.FromSlash(rel))
}

// writeOutput writes data at urlPath below dir. Paths resolving outside dir
// are refused.
func writeOutput(dir, urlPath string, data []byte) error {
	name := outputFile(dir, urlPath)
	rel, err := filepath.Rel(dir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output path %s is outside %s", urlPath, dir)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
