package seo

import (
	"time"

	"github.com/eringen/route360/i18n"
	"github.com/eringen/route360/plan"
)

type graphBuilder struct {
	site Site
	pg   Page
	head Head
	lang string
	home string // language home URL
	url  string // canonical URL of the page
}

func newGraph(site Site, pg Page, h Head) graphBuilder {
	return graphBuilder{
		site: site,
		pg:   pg,
		head: h,
		lang: pg.Entry.Language,
		home: plan.URL(site.URL, plan.IndexPath(pg.Entry.Language, 1)),
		url:  h.Canonical,
	}
}

func (g graphBuilder) websiteID() string { return g.home + "#website" }
func (g graphBuilder) personID() string  { return g.home + "#/schema/person" }

// base returns the nodes shared by every page of a language.
func (g graphBuilder) base() []Node {
	person := Person{
		ID:          g.personID(),
		Name:        g.site.Author,
		Description: g.head.Description,
	}
	if p := g.site.Profile; p.Path != "" {
		imgID := g.personID() + "/image/"
		u := plan.URL(g.site.URL, p.Path)
		person.Image = &ImageObject{
			ID:         imgID,
			InLanguage: g.lang,
			URL:        u,
			ContentURL: u,
			Width:      p.Width,
			Height:     p.Height,
			Caption:    g.site.Author,
		}
		person.Logo = ref(imgID)
	}
	return []Node{
		WebSite{
			ID:          g.websiteID(),
			URL:         g.home,
			Name:        g.site.Name,
			Description: g.head.Description,
			Publisher:   ref(g.personID()),
			InLanguage:  g.lang,
		},
		person,
	}
}

func (g graphBuilder) page() []Node {
	switch g.pg.Entry.Kind {
	case plan.KindPost:
		if g.pg.Document != nil {
			return g.article()
		}
	case plan.KindPage:
		if g.pg.Document != nil {
			return []Node{g.webPage(), g.breadcrumb(g.pg.Document.Title)}
		}
	case plan.KindIndex:
		return g.collection("", i18n.Get(g.lang).Home)
	case plan.KindTag:
		return g.collection(plan.TagPath(g.lang, g.pg.Entry.Slug, 1), tagTitle(g.pg))
	}
	return nil
}

func (g graphBuilder) thumbnail() string {
	if g.site.Logo.Path == "" {
		return ""
	}
	return plan.URL(g.site.URL, g.site.Logo.Path)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (g graphBuilder) article() []Node {
	d := g.pg.Document
	var sections []string
	for _, t := range d.Tags {
		title := t.Title
		if title == "" {
			title = t.Slug
		}
		sections = append(sections, title)
	}
	art := Article{
		ID:               g.url + "#article",
		IsPartOf:         ref(g.url),
		Author:           &Author{ID: g.personID(), Name: g.site.Author},
		Headline:         d.Title,
		DatePublished:    isoDate(d.Date),
		DateModified:     isoDate(d.LastMod),
		MainEntityOfPage: ref(g.url),
		WordCount:        d.WordCount,
		Publisher:        ref(g.personID()),
		Image:            ref(g.url + "#primaryimage"),
		ThumbnailURL:     g.thumbnail(),
		ArticleSection:   sections,
		InLanguage:       g.lang,
	}
	return []Node{art, g.webPage(), g.breadcrumb(d.Title)}
}

func (g graphBuilder) webPage() WebPage {
	d := g.pg.Document
	return WebPage{
		ID:                 g.url,
		URL:                g.url,
		Name:               g.head.Title,
		IsPartOf:           ref(g.websiteID()),
		PrimaryImageOfPage: ref(g.url + "#primaryimage"),
		Image:              ref(g.url + "#primaryimage"),
		ThumbnailURL:       g.thumbnail(),
		DatePublished:      isoDate(d.Date),
		DateModified:       isoDate(d.LastMod),
		Breadcrumb:         ref(g.url + "#breadcrumb"),
		InLanguage:         g.lang,
		PotentialAction:    []Node{ReadAction{Target: []string{g.url}}},
	}
}

// breadcrumb is Home > name. The last item has no URL.
func (g graphBuilder) breadcrumb(name string) BreadcrumbList {
	items := []ListItem{{Position: 1, Name: i18n.Get(g.lang).Home, Item: g.home}}
	if name != "" {
		items = append(items, ListItem{Position: 2, Name: name})
	}
	return BreadcrumbList{ID: g.url + "#breadcrumb", ItemListElement: items}
}

// collection describes an index or tag listing. root is the first page of the
// listing, empty for the language index.
func (g graphBuilder) collection(root, name string) []Node {
	id := g.home
	crumb := ""
	if root != "" {
		id = plan.URL(g.site.URL, root)
		crumb = name
	}
	page := CollectionPage{
		ID:                 id,
		URL:                g.url,
		Name:               g.head.Title,
		IsPartOf:           ref(g.websiteID()),
		PrimaryImageOfPage: ref(g.url + "#primaryimage"),
		Image:              ref(g.url + "#primaryimage"),
		ThumbnailURL:       g.thumbnail(),
		Breadcrumb:         ref(g.url + "#breadcrumb"),
		InLanguage:         g.lang,
	}
	if root == "" {
		page.About = ref(g.personID())
	}
	return []Node{page, g.breadcrumb(crumb)}
}
