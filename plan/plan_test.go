package plan

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/eringen/route360/content"
)

var languages = []string{"en", "fr", "ja"}

func post(lang, slug string, day int, tags ...string) content.Document {
	d := content.Document{
		ID:         lang + "/" + slug,
		Language:   lang,
		Type:       content.TypePost,
		Slug:       slug,
		Title:      slug,
		Date:       time.Date(2023, 1, day, 0, 0, 0, 0, time.UTC),
		SourcePath: "posts/" + slug + "/" + lang + ".md",
	}
	for _, t := range tags {
		d.Tags = append(d.Tags, content.TagRef{Slug: t})
	}
	return d
}

func page(lang, slug string) content.Document {
	return content.Document{
		ID:         "page:" + lang + "/" + slug,
		Language:   lang,
		Type:       content.TypePage,
		Slug:       slug,
		Title:      slug,
		SourcePath: "pages/" + slug + "/" + lang + ".md",
	}
}

func numbered(lang string, n int, tags ...string) []content.Document {
	var docs []content.Document
	for i := 1; i <= n; i++ {
		d := post(lang, fmt.Sprintf("p%02d", i), i, tags...)
		d.Order = i
		docs = append(docs, d)
	}
	return docs
}

func TestPaginate(t *testing.T) {
	if got := Paginate(0, PageSize); len(got) != 0 {
		t.Errorf("Paginate(0) = %v, want none", got)
	}

	one := Paginate(5, PageSize)
	if len(one) != 1 || !one[0].IsFirst || !one[0].IsLast {
		t.Errorf("Paginate(5) = %+v, want one first-and-last page", one)
	}

	three := Paginate(11, PageSize)
	if len(three) != 3 {
		t.Fatalf("Paginate(11) = %d pages, want 3", len(three))
	}
	want := Window{Skip: 5, Limit: 5, CurrentPage: 2, TotalPages: 3}
	if three[1] != want {
		t.Errorf("page 2 = %+v, want %+v", three[1], want)
	}
	if !three[2].IsLast || three[2].IsFirst {
		t.Errorf("page 3 = %+v, want last", three[2])
	}
}

func TestIndexPaginationCoversEveryPost(t *testing.T) {
	for _, n := range []int{1, 4, 5, 6, 10, 11, 23} {
		docs := numbered("en", n)
		p, err := Build(docs, languages)
		if err != nil {
			t.Fatalf("Build(%d posts) failed: %v", n, err)
		}
		var pages []Entry
		for _, e := range p.Entries {
			if e.Kind == KindIndex {
				pages = append(pages, e)
			}
		}
		if want := (n + 4) / 5; len(pages) != want {
			t.Errorf("%d posts: %d index pages, want %d", n, len(pages), want)
		}

		sorted := Posts(docs, "en", "")
		seen := make(map[string]bool)
		for _, e := range pages {
			end := min(e.Window.Skip+e.Window.Limit, len(sorted))
			if end-e.Window.Skip > PageSize {
				t.Errorf("%s holds %d posts", e.Path, end-e.Window.Skip)
			}
			for _, d := range sorted[e.Window.Skip:end] {
				if seen[d.ID] {
					t.Errorf("%s repeats %s", e.Path, d.ID)
				}
				seen[d.ID] = true
			}
		}
		if len(seen) != n {
			t.Errorf("%d posts: pages cover %d", n, len(seen))
		}
	}
}

func TestBuildPaths(t *testing.T) {
	docs := append(numbered("en", 11, "go"), page("en", "about"), post("fr", "bonjour", 3))
	p, err := Build(docs, languages)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, path := range []string{
		"/en/post/p01/",
		"/en/about/",
		"/en/tag/go/",
		"/en/tag/go/page/2/",
		"/en/tag/go/page/3/",
		"/en/",
		"/en/page/2/",
		"/en/page/3/",
		"/fr/post/bonjour/",
		"/fr/",
	} {
		if _, ok := p.Lookup(path); !ok {
			t.Errorf("plan is missing %s", path)
		}
	}
	for _, path := range []string{"/en/page/1/", "/en/tag/go/page/1/", "/en/page/4/", "/ja/", "/fr/tag/go/"} {
		if _, ok := p.Lookup(path); ok {
			t.Errorf("plan should not contain %s", path)
		}
	}

	last, _ := p.Lookup("/en/tag/go/page/3/")
	if w := last.Window; w.Skip != 10 || !w.IsLast || w.TotalPages != 3 {
		t.Errorf("tag page 3 window = %+v", w)
	}
}

func TestDrafts(t *testing.T) {
	hidden := post("en", "hidden", 9, "go")
	hidden.Draft = true
	draftPage := page("en", "wip")
	draftPage.Draft = true
	docs := []content.Document{post("en", "visible", 1), hidden, draftPage}

	p, err := Build(docs, languages)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := p.Lookup("/en/post/hidden/"); ok {
		t.Error("draft post should not be planned")
	}
	if _, ok := p.Lookup("/en/tag/go/"); ok {
		t.Error("tag with only draft posts should have no archive")
	}
	e, ok := p.Lookup("/en/wip/")
	if !ok || !e.Draft {
		t.Errorf("draft page should be planned and marked, got %+v %v", e, ok)
	}
	for _, pub := range p.Public() {
		if pub.Path == "/en/wip/" {
			t.Error("draft page should not be public")
		}
	}
}

func TestSiblings(t *testing.T) {
	docs := []content.Document{post("en", "p3", 1), post("en", "p1", 3), post("en", "p2", 2)}
	p, err := Build(docs, languages)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	get := func(slug string) Entry {
		e, ok := p.Lookup(PostPath("en", slug))
		if !ok {
			t.Fatalf("missing %s", slug)
		}
		return e
	}
	slug := func(s *Sibling) string {
		if s == nil {
			return ""
		}
		return s.Slug
	}
	tests := []struct{ slug, prev, next string }{
		{"p1", "p2", ""},
		{"p2", "p3", "p1"},
		{"p3", "", "p2"},
	}
	for _, tt := range tests {
		e := get(tt.slug)
		if got := slug(e.Previous); got != tt.prev {
			t.Errorf("%s.Previous = %q, want %q", tt.slug, got, tt.prev)
		}
		if got := slug(e.Next); got != tt.next {
			t.Errorf("%s.Next = %q, want %q", tt.slug, got, tt.next)
		}
	}
}

func TestSortPostsKeepsIngestionOrderOnTies(t *testing.T) {
	a, b, c := post("en", "a", 1), post("en", "b", 1), post("en", "c", 2)
	a.Order, b.Order, c.Order = 0, 1, 2
	docs := []content.Document{b, c, a}
	SortPosts(docs)
	got := []string{docs[0].Slug, docs[1].Slug, docs[2].Slug}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortPosts = %v, want %v", got, want)
	}
}

func TestConflict(t *testing.T) {
	docs := append(numbered("en", 6), page("en", "page/2"))
	_, err := Build(docs, languages)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Build error = %v, want ConflictError", err)
	}
	if ce.Path != "/en/page/2/" || ce.First != "pages/page/2/en.md" || ce.Second != "index en page 2" {
		t.Errorf("ConflictError = %+v", ce)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	docs := append(numbered("en", 12, "go", "web"), numbered("ja", 3, "go")...)
	docs = append(docs, page("en", "about"), page("ja", "about"))
	a, err := Build(docs, languages)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, _ := Build(docs, languages)
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of the same documents differ")
	}
}

func TestAlternates(t *testing.T) {
	docs := []content.Document{page("en", "about"), page("fr", "about"), page("ja", "about"), page("en", "secret")}
	p, err := Build(docs, languages)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	alts := p.Alternates()
	if got := alts["/fr/about/"]; !reflect.DeepEqual(got, []string{"en", "fr", "ja"}) {
		t.Errorf("alternates of /fr/about/ = %v", got)
	}
	if got := alts["/en/secret/"]; !reflect.DeepEqual(got, []string{"en"}) {
		t.Errorf("alternates of /en/secret/ = %v", got)
	}
}

func TestURL(t *testing.T) {
	tests := []struct{ base, path, want string }{
		{"https://route360.dev", "/en/", "https://route360.dev/en/"},
		{"https://route360.dev/", "/ja/post/a/", "https://route360.dev/ja/post/a/"},
		{"http://localhost:3000", "/rss.fr.xml", "http://localhost:3000/rss.fr.xml"},
	}
	for _, tt := range tests {
		if got := URL(tt.base, tt.path); got != tt.want {
			t.Errorf("URL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
