// Package plan enumerates every page of the site from an immutable document
// set. Build is a pure function: the same documents always produce the same
// plan.
package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/i18n"
)

// PageSize is the number of posts on an index or tag archive page.
const PageSize = 5

// Kind selects the template of a page.
type Kind string

const (
	KindPost  Kind = "post"
	KindPage  Kind = "page"
	KindTag   Kind = "tag"
	KindIndex Kind = "index"
)

// Window is the slice of a post listing shown on one paginated page.
type Window struct {
	Skip        int
	Limit       int
	CurrentPage int
	TotalPages  int
	IsFirst     bool
	IsLast      bool
}

// Sibling references a neighbouring post.
type Sibling struct {
	DocumentID string
	Slug       string
	Title      string
	Path       string
}

// Entry is one output page.
type Entry struct {
	Path       string
	Kind       Kind
	Language   string
	DocumentID string // post and page
	Slug       string // document slug, or tag slug for archives
	Window     *Window
	Previous   *Sibling // older post
	Next       *Sibling // newer post
	LastMod    time.Time
	Draft      bool
	Source     string // what produced the entry, for conflict reports
}

// Plan is the full set of pages in generation order.
type Plan struct {
	Entries []Entry
	index   map[string]int
}

// Lookup returns the entry at path.
func (p Plan) Lookup(path string) (Entry, bool) {
	i, ok := p.index[path]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Paths returns every planned path in generation order.
func (p Plan) Paths() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Path
	}
	return out
}

// Public returns the entries that may appear in listings and the sitemap.
func (p Plan) Public() []Entry {
	out := make([]Entry, 0, len(p.Entries))
	for _, e := range p.Entries {
		if !e.Draft {
			out = append(out, e)
		}
	}
	return out
}

// Alternates maps each public path to the languages that have an equivalent
// page.
func (p Plan) Alternates() map[string][]string {
	public := p.Public()
	paths := make([]string, len(public))
	for i, e := range public {
		paths[i] = e.Path
	}
	return i18n.Alternates(paths)
}

// ConflictError reports two generators claiming the same output path.
type ConflictError struct {
	Path   string
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate output path %s: produced by %s and %s", e.Path, e.First, e.Second)
}

// Paginate splits n items into pages of size. It returns no windows when n is
// zero.
func Paginate(n, size int) []Window {
	if n <= 0 || size <= 0 {
		return nil
	}
	total := (n + size - 1) / size
	out := make([]Window, total)
	for i := range out {
		page := i + 1
		out[i] = Window{
			Skip:        size * i,
			Limit:       size,
			CurrentPage: page,
			TotalPages:  total,
			IsFirst:     page == 1,
			IsLast:      page == total,
		}
	}
	return out
}

// PostPath returns the path of a post.
func PostPath(lang, slug string) string { return "/" + lang + "/post/" + slug + "/" }

// PagePath returns the path of a standalone page.
func PagePath(lang, slug string) string { return "/" + lang + "/" + slug + "/" }

// TagPath returns the path of page n of a tag archive.
func TagPath(lang, tag string, n int) string {
	return pagedPath("/"+lang+"/tag/"+tag+"/", n)
}

// IndexPath returns the path of page n of a language's index.
func IndexPath(lang string, n int) string {
	return pagedPath("/"+lang+"/", n)
}

// URL joins the site base URL and a planned path.
func URL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func pagedPath(root string, n int) string {
	if n <= 1 {
		return root
	}
	return fmt.Sprintf("%spage/%d/", root, n)
}

// SortPosts orders docs newest first. Equal dates keep ingestion order.
func SortPosts(docs []content.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.After(docs[j].Date)
		}
		return docs[i].Order < docs[j].Order
	})
}

// Posts returns the public posts of lang, newest first. An empty tag selects
// every post.
func Posts(docs []content.Document, lang, tag string) []content.Document {
	var out []content.Document
	for _, d := range docs {
		if d.Language != lang || !d.IsPost() || d.Draft {
			continue
		}
		if tag != "" && !d.HasTag(tag) {
			continue
		}
		out = append(out, d)
	}
	SortPosts(out)
	return out
}

// Build enumerates posts, standalone pages, tag archives and index pages for
// each language in languages, in that order. A language with no public posts
// gets no index.
func Build(docs []content.Document, languages []string) (Plan, error) {
	b := builder{plan: Plan{index: make(map[string]int)}}
	for _, lang := range languages {
		posts := Posts(docs, lang, "")
		b.posts(lang, posts)
		b.pages(docs, lang)
		b.tags(lang, posts)
		b.listing(KindIndex, lang, "", len(posts), "index "+lang)
		if b.err != nil {
			return Plan{}, b.err
		}
	}
	return b.plan, nil
}

type builder struct {
	plan Plan
	err  error
}

func (b *builder) add(e Entry) {
	if b.err != nil {
		return
	}
	if i, dup := b.plan.index[e.Path]; dup {
		b.err = &ConflictError{Path: e.Path, First: b.plan.Entries[i].Source, Second: e.Source}
		return
	}
	b.plan.index[e.Path] = len(b.plan.Entries)
	b.plan.Entries = append(b.plan.Entries, e)
}

func sibling(d content.Document) *Sibling {
	return &Sibling{DocumentID: d.ID, Slug: d.Slug, Title: d.Title, Path: PostPath(d.Language, d.Slug)}
}

// posts adds one page per post. posts is newest first, so the previous post is
// the next element and the next post the one before it.
func (b *builder) posts(lang string, posts []content.Document) {
	for i, d := range posts {
		e := Entry{
			Path:       PostPath(lang, d.Slug),
			Kind:       KindPost,
			Language:   lang,
			DocumentID: d.ID,
			Slug:       d.Slug,
			LastMod:    d.LastMod,
			Source:     d.SourcePath,
		}
		if i+1 < len(posts) {
			e.Previous = sibling(posts[i+1])
		}
		if i > 0 {
			e.Next = sibling(posts[i-1])
		}
		b.add(e)
	}
}

func (b *builder) pages(docs []content.Document, lang string) {
	for _, d := range docs {
		if d.Language != lang || d.Type != content.TypePage {
			continue
		}
		b.add(Entry{
			Path:       PagePath(lang, d.Slug),
			Kind:       KindPage,
			Language:   lang,
			DocumentID: d.ID,
			Slug:       d.Slug,
			LastMod:    d.LastMod,
			Draft:      d.Draft,
			Source:     d.SourcePath,
		})
	}
}

func (b *builder) tags(lang string, posts []content.Document) {
	counts := make(map[string]int)
	for _, d := range posts {
		for _, t := range d.Tags {
			counts[t.Slug]++
		}
	}
	slugs := make([]string, 0, len(counts))
	for s := range counts {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	for _, s := range slugs {
		b.listing(KindTag, lang, s, counts[s], "tag "+s+" ("+lang+")")
	}
}

func (b *builder) listing(kind Kind, lang, tag string, n int, source string) {
	for _, w := range Paginate(n, PageSize) {
		path := IndexPath(lang, w.CurrentPage)
		if kind == KindTag {
			path = TagPath(lang, tag, w.CurrentPage)
		}
		b.add(Entry{
			Path:     path,
			Kind:     kind,
			Language: lang,
			Slug:     tag,
			Window:   &w,
			Source:   fmt.Sprintf("%s page %d", source, w.CurrentPage),
		})
	}
}
