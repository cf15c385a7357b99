// Package seo assembles the head metadata of a page: title, description,
// canonical and alternate-language URLs, Open Graph tags and a schema.org
// graph.
package seo

import (
	"slices"
	"strings"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/i18n"
	"github.com/eringen/route360/plan"
)

// ExcerptLength is the length of a post or page description in runes.
const ExcerptLength = 140

// Image is a site image with its final dimensions.
type Image struct {
	Path   string // absolute path below the site root, e.g. /images/logo.png
	Width  int
	Height int
}

// Site holds the site-wide values every head needs.
type Site struct {
	Name        string
	URL         string
	Author      string
	DefaultLang string
	Logo        Image
	Profile     Image
}

// Alternate is a link to the same page in another language.
type Alternate struct {
	Lang string // hreflang, "x-default" for the default
	Href string
}

// Head is everything rendered into a page's <head>.
type Head struct {
	Lang             string
	Title            string
	Description      string
	Canonical        string
	Alternates       []Alternate
	SiteName         string
	Type             string // og:type
	Image            string
	ImageWidth       int
	ImageHeight      int
	Locale           string
	LocaleAlternates []string
	Graph            Graph
}

// Page is the input for one head.
type Page struct {
	Entry     plan.Entry
	Languages []string          // languages with an equivalent page
	Document  *content.Document // post and page
	TagTitle  string            // tag archives
}

// Canonical returns the absolute URL of path.
func Canonical(base, path string) string { return plan.URL(base, path) }

// AlternateURLs returns one link per language by substituting the language
// segment of path, followed by x-default. x-default points at defaultLang when
// it is among langs, otherwise at path itself. Fewer than two languages yield
// no links, matching what the sitemap announces.
func AlternateURLs(base, path string, langs []string, defaultLang string) []Alternate {
	if len(langs) < 2 {
		return nil
	}
	out := make([]Alternate, 0, len(langs)+1)
	for _, l := range langs {
		out = append(out, Alternate{Lang: l, Href: plan.URL(base, i18n.SwapLang(path, l))})
	}
	def := Canonical(base, path)
	if slices.Contains(langs, defaultLang) {
		def = plan.URL(base, i18n.SwapLang(path, defaultLang))
	}
	return append(out, Alternate{Lang: "x-default", Href: def})
}

// Title returns the document title of a page.
func Title(site Site, pg Page) string {
	e := pg.Entry
	labels := i18n.Get(e.Language)
	desc := labels.Description
	switch e.Kind {
	case plan.KindIndex:
		if w := e.Window; w != nil && w.CurrentPage > 1 {
			return join(site.Name, labels.PageIndexText(w.CurrentPage, w.TotalPages), desc)
		}
		return join(site.Name, desc)
	case plan.KindTag:
		archive := labels.ArchiveTitleText(tagTitle(pg))
		if w := e.Window; w != nil && w.CurrentPage > 1 {
			return join(archive, labels.PageIndexText(w.CurrentPage, w.TotalPages), site.Name)
		}
		return join(archive, site.Name)
	case plan.KindPost, plan.KindPage:
		if pg.Document != nil {
			return join(pg.Document.Title, site.Name)
		}
	}
	return join(site.Name, desc)
}

func join(parts ...string) string { return strings.Join(parts, " - ") }

func tagTitle(pg Page) string {
	if pg.TagTitle != "" {
		return pg.TagTitle
	}
	return pg.Entry.Slug
}

// Build assembles the head of pg.
func Build(site Site, pg Page) Head {
	e := pg.Entry
	labels := i18n.Get(e.Language)
	h := Head{
		Lang:        e.Language,
		Title:       Title(site, pg),
		Description: labels.Description,
		Canonical:   Canonical(site.URL, e.Path),
		Alternates:  AlternateURLs(site.URL, e.Path, pg.Languages, site.DefaultLang),
		SiteName:    site.Name,
		Type:        "website",
		Locale:      labels.Locale,
	}
	if pg.Document != nil && (e.Kind == plan.KindPost || e.Kind == plan.KindPage) {
		h.Type = "article"
		if ex := pg.Document.Excerpt(ExcerptLength); ex != "" {
			h.Description = ex
		}
	}
	if site.Logo.Path != "" {
		h.Image = plan.URL(site.URL, site.Logo.Path)
		h.ImageWidth = site.Logo.Width
		h.ImageHeight = site.Logo.Height
	}
	for _, l := range pg.Languages {
		if l != e.Language {
			h.LocaleAlternates = append(h.LocaleAlternates, i18n.Get(l).Locale)
		}
	}

	g := newGraph(site, pg, h)
	h.Graph = append(g.page(), g.base()...)
	return h
}
