package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/plan"
)

const base = "https://route360.dev"

func post(lang, slug string, day int) content.Document {
	return content.Document{
		ID:       lang + "/" + slug,
		Language: lang,
		Type:     content.TypePost,
		Slug:     slug,
		Title:    "Title " + slug,
		Date:     time.Date(2023, 3, day, 0, 0, 0, 0, time.UTC),
		Plain:    strings.Repeat("word ", 40),
	}
}

func page(lang, slug string) content.Document {
	return content.Document{ID: lang + "/page/" + slug, Language: lang, Type: content.TypePage, Slug: slug, Title: slug}
}

func TestSelect(t *testing.T) {
	var docs []content.Document
	for i := 1; i <= 14; i++ {
		d := post("en", fmt.Sprintf("p%02d", i), i)
		d.Order = i
		docs = append(docs, d)
	}
	docs[13].Draft = true // newest is a draft
	docs = append(docs, post("fr", "autre", 28), page("en", "about"))

	got := Select(docs, base, "en", Limit)
	if len(got) != 10 {
		t.Fatalf("Select = %d entries, want 10", len(got))
	}
	if got[0].Title != "Title p13" {
		t.Errorf("first entry = %q, want the newest public post", got[0].Title)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.After(got[i].Date) {
			t.Errorf("entries %d and %d are not in descending date order", i-1, i)
		}
	}
	e := got[0]
	if e.URL != base+"/en/post/p13/" || e.GUID != e.URL {
		t.Errorf("URL = %q, GUID = %q", e.URL, e.GUID)
	}
	if n := len([]rune(e.Description)); n > ExcerptLength+1 || !strings.HasSuffix(e.Description, "…") {
		t.Errorf("Description = %q (%d runes)", e.Description, n)
	}

	if fr := Select(docs, base, "fr", Limit); len(fr) != 1 {
		t.Errorf("fr feed = %d entries, want 1", len(fr))
	}
	if ja := Select(docs, base, "ja", Limit); len(ja) != 0 {
		t.Errorf("ja feed = %d entries, want 0", len(ja))
	}
}

func TestEncodeRSS(t *testing.T) {
	entries := Select([]content.Document{post("en", "a", 2), post("en", "b", 1)}, base, "en", Limit)
	var buf bytes.Buffer
	err := EncodeRSS(&buf, Channel{
		Title:       "Route360",
		Link:        base + "/en/",
		Description: "Notes",
		Language:    "en",
		Self:        base + Path("en"),
	}, entries)
	if err != nil {
		t.Fatalf("EncodeRSS failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`,
		`<atom:link href="https://route360.dev/rss.en.xml" rel="self" type="application/rss+xml"></atom:link>`,
		`<guid isPermaLink="true">https://route360.dev/en/post/a/</guid>`,
		`<pubDate>Thu, 02 Mar 2023 00:00:00 +0000</pubDate>`,
		`<lastBuildDate>Thu, 02 Mar 2023 00:00:00 +0000</lastBuildDate>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("feed is missing %s\n%s", want, out)
		}
	}

	var parsed struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"channel>item"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("feed is not valid XML: %v", err)
	}
	if len(parsed.Items) != 2 || parsed.Items[0].Title != "Title a" {
		t.Errorf("items = %+v", parsed.Items)
	}
}

func TestSitemapAlternates(t *testing.T) {
	about := []content.Document{page("en", "about"), page("fr", "about"), page("ja", "about"), page("en", "secret")}
	about[0].LastMod = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	p, err := plan.Build(about, []string{"en", "fr", "ja"})
	if err != nil {
		t.Fatalf("plan.Build failed: %v", err)
	}
	entries := Sitemap(p, base, "en")
	byPath := make(map[string]SitemapEntry)
	for _, e := range entries {
		byPath[e.Path] = e
	}

	fr := byPath["/fr/about/"]
	if !reflect.DeepEqual(fr.AlternateLangs, []string{"en", "fr", "ja"}) {
		t.Errorf("/fr/about/ alternates = %v", fr.AlternateLangs)
	}
	wantLinks := []Link{
		{Lang: "en", Href: base + "/en/about/"},
		{Lang: "fr", Href: base + "/fr/about/"},
		{Lang: "ja", Href: base + "/ja/about/"},
		{Lang: "x-default", Href: base + "/en/about/"},
	}
	if !reflect.DeepEqual(fr.Links, wantLinks) {
		t.Errorf("/fr/about/ links = %v", fr.Links)
	}
	if fr.Priority != "0.5" || fr.ChangeFreq != "daily" || fr.LastMod != "" {
		t.Errorf("/fr/about/ = %+v", fr)
	}
	if en := byPath["/en/about/"]; en.LastMod != "2023-04-01" || en.Priority != "0.7" {
		t.Errorf("/en/about/ = %+v", en)
	}

	secret := byPath["/en/secret/"]
	if !reflect.DeepEqual(secret.AlternateLangs, []string{"en"}) || secret.Links != nil {
		t.Errorf("/en/secret/ = %+v", secret)
	}
}

func TestSitemapSkipsDrafts(t *testing.T) {
	wip := page("fr", "about")
	wip.Draft = true
	p, err := plan.Build([]content.Document{page("en", "about"), wip}, []string{"en", "fr"})
	if err != nil {
		t.Fatalf("plan.Build failed: %v", err)
	}
	entries := Sitemap(p, base, "en")
	if len(entries) != 1 || entries[0].Path != "/en/about/" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Links != nil {
		t.Errorf("a draft should not count as an alternate: %+v", entries[0].Links)
	}
}

func TestLinksDefaultFallback(t *testing.T) {
	links := Links(base, "/ja/post/x/", []string{"fr", "ja"}, "en")
	if got := links[len(links)-1]; got != (Link{Lang: "x-default", Href: base + "/ja/post/x/"}) {
		t.Errorf("x-default = %+v, want the page itself", got)
	}
}

func TestChunk(t *testing.T) {
	entries := make([]SitemapEntry, 7)
	chunks := Chunk(entries, 3)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Errorf("Chunk(7, 3) sizes = %d chunks", len(chunks))
	}
	if got := Chunk(nil, 3); len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("Chunk(nil) = %v, want one empty chunk", got)
	}
}

func TestEncodeURLSet(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeURLSet(&buf, []SitemapEntry{{
		Loc:        base + "/en/",
		ChangeFreq: ChangeFreq,
		Priority:   "0.5",
		Links:      []Link{{Lang: "en", Href: base + "/en/"}, {Lang: "ja", Href: base + "/ja/"}},
	}})
	if err != nil {
		t.Fatalf("EncodeURLSet failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		`xmlns:xhtml="http://www.w3.org/1999/xhtml"`,
		`<xhtml:link rel="alternate" hreflang="ja" href="https://route360.dev/ja/"></xhtml:link>`,
		`<changefreq>daily</changefreq>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap is missing %s\n%s", want, out)
		}
	}
}

func TestEncodeIndexAndRobots(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeIndex(&buf, []string{base + ChunkPath(0)}); err != nil {
		t.Fatalf("EncodeIndex failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<loc>https://route360.dev/sitemap-0.xml</loc>") {
		t.Errorf("index = %s", buf.String())
	}
	if r := Robots(base); !strings.Contains(r, "Sitemap: https://route360.dev/sitemap-index.xml") {
		t.Errorf("Robots = %q", r)
	}
}
