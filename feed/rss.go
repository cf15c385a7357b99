// Package feed derives the RSS feeds and the sitemap from the document set and
// the page plan.
package feed

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/plan"
)

const (
	// Limit is the number of posts in a feed.
	Limit = 10
	// ExcerptLength is the length of a feed item description in runes.
	ExcerptLength = 140
)

// Entry is one feed item.
type Entry struct {
	Title       string
	Description string
	Date        time.Time
	URL         string
	GUID        string
}

// Path returns the output path of the feed for lang.
func Path(lang string) string { return "/rss." + lang + ".xml" }

// Select returns the newest public posts of lang, at most limit of them.
func Select(docs []content.Document, base, lang string, limit int) []Entry {
	posts := plan.Posts(docs, lang, "")
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	out := make([]Entry, 0, len(posts))
	for _, d := range posts {
		u := plan.URL(base, plan.PostPath(d.Language, d.Slug))
		out = append(out, Entry{
			Title:       d.Title,
			Description: d.Excerpt(ExcerptLength),
			Date:        d.Date,
			URL:         u,
			GUID:        u,
		})
	}
	return out
}

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Link        string // site home for the language
	Description string
	Language    string
	Self        string // absolute URL of the feed
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	AtomLink      atomLink  `xml:"atom:link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// EncodeRSS writes an RSS 2.0 document. The build date is the date of the
// newest entry so unchanged content yields an identical file.
func EncodeRSS(w io.Writer, ch Channel, entries []Entry) error {
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, rssItem{
			Title:       e.Title,
			Link:        e.URL,
			Description: e.Description,
			PubDate:     formatPubDate(e.Date),
			GUID:        rssGUID{IsPermaLink: e.GUID == e.URL, Value: e.GUID},
		})
	}
	feed := rssXML{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			AtomLink:    atomLink{Href: ch.Self, Rel: "self", Type: "application/rss+xml"},
			Description: ch.Description,
			Language:    ch.Language,
			Items:       items,
		},
	}
	if len(entries) > 0 {
		feed.Channel.LastBuildDate = formatPubDate(entries[0].Date)
	}
	return encode(w, feed)
}

func formatPubDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123Z)
}
