package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/route360/seo"
)

// Layout wraps body in the HTML document: head metadata, header with the
// language switcher, and footer.
func Layout(head seo.Head, chrome Chrome, body templ.Component) templ.Component {
	return component(func(ctx context.Context, p *page) {
		p.raw("<!DOCTYPE html>\n<html")
		p.attr("lang", head.Lang)
		p.raw("><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		p.render(ctx, Head(head))
		p.raw(`<link rel="stylesheet" href="/style.css">`)
		if chrome.FeedPath != "" {
			p.raw(`<link rel="alternate" type="application/rss+xml"`)
			p.attr("title", chrome.SiteName)
			p.attr("href", chrome.FeedPath)
			p.raw(">")
		}
		p.raw("</head><body>")
		header(p, chrome)
		p.raw(`<main><div class="container">`)
		p.render(ctx, body)
		p.raw("</div></main>")
		footer(p, chrome)
		p.raw("</body></html>\n")
	})
}

// Head renders the title, description, canonical and alternate links, Open
// Graph and Twitter tags, and the JSON-LD graph.
func Head(h seo.Head) templ.Component {
	return component(func(_ context.Context, p *page) {
		p.raw("<title>")
		p.text(h.Title)
		p.raw("</title>")
		meta(p, "name", "description", h.Description)
		if h.Canonical != "" {
			p.raw(`<link rel="canonical"`)
			p.attr("href", h.Canonical)
			p.raw(">")
		}
		for _, a := range h.Alternates {
			p.raw(`<link rel="alternate"`)
			p.attr("hreflang", a.Lang)
			p.attr("href", a.Href)
			p.raw(">")
		}
		meta(p, "property", "og:site_name", h.SiteName)
		meta(p, "property", "og:title", h.Title)
		meta(p, "property", "og:description", h.Description)
		meta(p, "property", "og:url", h.Canonical)
		meta(p, "property", "og:type", h.Type)
		if h.Image != "" {
			meta(p, "property", "og:image", h.Image)
			if h.ImageWidth > 0 && h.ImageHeight > 0 {
				meta(p, "property", "og:image:width", itoa(h.ImageWidth))
				meta(p, "property", "og:image:height", itoa(h.ImageHeight))
			}
		}
		meta(p, "property", "og:locale", h.Locale)
		for _, l := range h.LocaleAlternates {
			meta(p, "property", "og:locale:alternate", l)
		}
		meta(p, "name", "twitter:card", "summary")
		meta(p, "name", "twitter:title", h.Title)
		meta(p, "name", "twitter:description", h.Description)
		if len(h.Graph) > 0 {
			// encoding/json escapes <, > and &, so the graph cannot close the
			// script element.
			p.raw(`<script type="application/ld+json">`)
			p.raw(h.Graph.String())
			p.raw("</script>")
		}
	})
}

func meta(p *page, key, name, content string) {
	if content == "" {
		return
	}
	p.raw("<meta")
	p.attr(key, name)
	p.attr("content", content)
	p.raw(">")
}

func header(p *page, c Chrome) {
	p.raw(`<header><div class="header-container">`)
	p.link(c.HomePath, "logo", c.SiteName)
	if len(c.Languages) > 1 {
		p.raw(`<nav class="nav"><details class="lang"><summary>`)
		for _, l := range c.Languages {
			if l.Current {
				p.text(l.Name)
			}
		}
		p.raw(`</summary><ul class="lang-selector">`)
		for _, l := range c.Languages {
			p.raw("<li><a")
			p.attr("href", l.Href)
			p.attr("hreflang", l.Code)
			p.raw(` rel="alternate"`)
			if l.Current {
				p.raw(` class="current" aria-current="true"`)
			}
			p.raw(">")
			p.text(l.Name)
			p.raw("</a></li>")
		}
		p.raw("</ul></details></nav>")
	}
	p.raw("</div></header>")
}

func footer(p *page, c Chrome) {
	p.raw(`<footer><div class="footer-container"><ul class="menu">`)
	if c.FeedPath != "" {
		p.raw("<li>")
		p.link(c.FeedPath, "", "RSS")
		p.raw("</li>")
	}
	p.raw(`</ul><p class="copyright">© `)
	p.text(c.SiteName)
	p.raw("</p></div></footer>")
}
