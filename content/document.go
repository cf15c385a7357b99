// Package content reads the site's markdown tree into an immutable set of
// documents. Language, type and slug come from where a file lives:
// content/{type}/{slug}/{lang}.md.
package content

import (
	"time"

	"github.com/eringen/route360/markdown"
)

// Document types.
const (
	TypePost = "posts"
	TypePage = "pages"
)

// TagRef is a tag attached to a document. Title is empty when the tag table has
// no entry for Slug.
type TagRef struct {
	Slug  string
	Title string
}

// Tag is one entry of the tag table.
type Tag struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

// Document is one markdown file with derived fields.
type Document struct {
	ID       string
	Language string
	Type     string
	Slug     string

	Title   string
	Date    time.Time
	LastMod time.Time // zero when not declared
	Tags    []TagRef
	Draft   bool

	Body      string
	HTML      string
	Plain     string
	WordCount int
	Headings  []markdown.Heading

	SourcePath string // relative to the content root
	Order      int    // ingestion order
}

// IsPost reports whether d is a blog post.
func (d Document) IsPost() bool { return d.Type == TypePost }

// Excerpt returns the plain-text excerpt of d cut to n runes.
func (d Document) Excerpt(n int) string {
	return markdown.Excerpt(d.Plain, n)
}

// HasTag reports whether d carries the tag slug.
func (d Document) HasTag(slug string) bool {
	for _, t := range d.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// Updated reports whether d declares a last-modified date after its date.
func (d Document) Updated() bool {
	return !d.LastMod.IsZero() && d.LastMod.After(d.Date)
}
