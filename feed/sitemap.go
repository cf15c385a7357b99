package feed

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/eringen/route360/plan"
	"github.com/eringen/route360/seo"
)

// MaxURLs is the number of URLs written to one sitemap file.
const MaxURLs = 45000

// ChangeFreq is the change frequency announced for every page.
const ChangeFreq = "daily"

// IndexPath is the output path of the sitemap index.
const IndexPath = "/sitemap-index.xml"

// Link is an alternate-language link of a sitemap entry. It is the same link
// a page announces in its head.
type Link = seo.Alternate

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	Path           string
	Loc            string
	LastMod        string // YYYY-MM-DD, empty when the content declares none
	AlternateLangs []string
	Links          []Link // only with two or more alternates
	ChangeFreq     string
	Priority       string
}

// Sitemap returns one entry per public page of p. Alternates are computed over
// the same public set, so a draft page never appears as an alternate.
func Sitemap(p plan.Plan, base, defaultLang string) []SitemapEntry {
	alts := p.Alternates()
	public := p.Public()
	out := make([]SitemapEntry, 0, len(public))
	for _, e := range public {
		s := SitemapEntry{
			Path:           e.Path,
			Loc:            plan.URL(base, e.Path),
			AlternateLangs: alts[e.Path],
			ChangeFreq:     ChangeFreq,
			Priority:       "0.5",
		}
		if !e.LastMod.IsZero() {
			s.LastMod = e.LastMod.Format("2006-01-02")
			s.Priority = "0.7"
		}
		s.Links = Links(base, e.Path, s.AlternateLangs, defaultLang)
		out = append(out, s)
	}
	return out
}

// Links returns the reciprocal alternate links of path, followed by the
// x-default link. It returns nil for fewer than two languages.
func Links(base, path string, langs []string, defaultLang string) []Link {
	return seo.AlternateURLs(base, path, langs, defaultLang)
}

type urlSetXML struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []urlXML `xml:"url"`
}

type urlXML struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq string     `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
	Links      []xhtmlXML `xml:"xhtml:link"`
}

type xhtmlXML struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type indexXML struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	XMLNS    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapXML `xml:"sitemap"`
}

type sitemapXML struct {
	Loc string `xml:"loc"`
}

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChunkPath returns the output path of the i-th sitemap file.
func ChunkPath(i int) string { return fmt.Sprintf("/sitemap-%d.xml", i) }

// Chunk splits entries into groups of at most size. An empty sitemap still
// yields one empty group so the index always references a file.
func Chunk(entries []SitemapEntry, size int) [][]SitemapEntry {
	if len(entries) == 0 || size <= 0 {
		return [][]SitemapEntry{entries}
	}
	var out [][]SitemapEntry
	for len(entries) > size {
		out = append(out, entries[:size])
		entries = entries[size:]
	}
	return append(out, entries)
}

// EncodeURLSet writes one sitemap file.
func EncodeURLSet(w io.Writer, entries []SitemapEntry) error {
	set := urlSetXML{
		XMLNS: sitemapNS,
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs:  make([]urlXML, 0, len(entries)),
	}
	for _, e := range entries {
		u := urlXML{
			Loc:        e.Loc,
			LastMod:    e.LastMod,
			ChangeFreq: e.ChangeFreq,
			Priority:   e.Priority,
		}
		for _, l := range e.Links {
			u.Links = append(u.Links, xhtmlXML{Rel: "alternate", Hreflang: l.Lang, Href: l.Href})
		}
		set.URLs = append(set.URLs, u)
	}
	return encode(w, set)
}

// EncodeIndex writes the sitemap index referencing locs.
func EncodeIndex(w io.Writer, locs []string) error {
	idx := indexXML{XMLNS: sitemapNS}
	for _, l := range locs {
		idx.Sitemaps = append(idx.Sitemaps, sitemapXML{Loc: l})
	}
	return encode(w, idx)
}

// Robots returns a robots.txt allowing everything and pointing at the
// sitemap index.
func Robots(base string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + plan.URL(base, IndexPath) + "\n"
}

func encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(v)
}
