package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/route360/i18n"
	"github.com/eringen/route360/markdown"
	"github.com/eringen/route360/plan"
	"github.com/eringen/route360/seo"
)

// Chrome is the site frame around every page: header, language switcher and
// footer.
type Chrome struct {
	SiteName  string
	Labels    i18n.Labels
	HomePath  string // e.g. /en/
	FeedPath  string // e.g. /rss.en.xml
	Languages []LangLink
}

// LangLink is one entry of the language switcher.
type LangLink struct {
	Code    string
	Name    string
	Href    string
	Current bool
}

// TagLink links to a tag archive.
type TagLink struct {
	Slug  string
	Title string
	Path  string
}

// PostCard is a post as shown in a listing.
type PostCard struct {
	Title    string
	Path     string
	DateTime string // machine readable, YYYY-MM-DD
	Date     string // formatted for the page language
	Excerpt  string
	Tags     []TagLink
}

// Listing is the data of an index or tag archive page.
type Listing struct {
	Head    seo.Head
	Chrome  Chrome
	Heading string // archive title, empty on the index
	Tag     string // tag slug, empty on the index
	Posts   []PostCard
	Window  plan.Window
}

// Article is the data of a post or standalone page.
type Article struct {
	Head        seo.Head
	Chrome      Chrome
	Title       string
	DateTime    string
	Date        string
	UpdatedTime string // empty unless modified after Date
	Updated     string
	HTML        string
	Tags        []TagLink
	Contents    []markdown.Heading
	Previous    *plan.Sibling
	Next        *plan.Sibling
}

// NotFoundPage is the data of the 404 page.
type NotFoundPage struct {
	Chrome Chrome
}

// ViewFuncs holds the templ components the builder calls for each page kind.
// Any nil field falls back to the built-in theme.
type ViewFuncs struct {
	Index    func(Listing) templ.Component
	Tag      func(Listing) templ.Component
	Post     func(Article) templ.Component
	Page     func(Article) templ.Component
	NotFound func(NotFoundPage) templ.Component
}

// Defaults returns the built-in theme.
func Defaults() ViewFuncs {
	return ViewFuncs{
		Index:    Index,
		Tag:      Tag,
		Post:     Post,
		Page:     Page,
		NotFound: NotFound,
	}
}

// WithDefaults returns v with every nil component replaced by the built-in one.
func (v ViewFuncs) WithDefaults() ViewFuncs {
	d := Defaults()
	if v.Index == nil {
		v.Index = d.Index
	}
	if v.Tag == nil {
		v.Tag = d.Tag
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Page == nil {
		v.Page = d.Page
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	return v
}
