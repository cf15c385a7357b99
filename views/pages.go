package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/route360/markdown"
	"github.com/eringen/route360/plan"
)

// Index renders a page of the language index.
func Index(l Listing) templ.Component {
	return Layout(l.Head, l.Chrome, listing(l))
}

// Tag renders a page of a tag archive.
func Tag(l Listing) templ.Component {
	return Layout(l.Head, l.Chrome, listing(l))
}

func listing(l Listing) templ.Component {
	return component(func(ctx context.Context, p *page) {
		if l.Heading != "" {
			p.raw(`<h1 class="archive-title">`)
			p.text(l.Heading)
			p.raw("</h1>")
		}
		p.raw(`<div class="posts">`)
		for _, c := range l.Posts {
			card(p, c)
		}
		p.raw("</div>")
		p.render(ctx, Pagination(l.Chrome.Labels.Code, l.Tag, l.Window))
	})
}

func card(p *page, c PostCard) {
	p.raw(`<article class="card"><time`)
	p.attr("datetime", c.DateTime)
	p.raw(">")
	p.text(c.Date)
	p.raw("</time><h2>")
	p.link(c.Path, "", c.Title)
	p.raw("</h2>")
	tags(p, c.Tags)
	if c.Excerpt != "" {
		p.raw(`<p class="excerpt">`)
		p.text(c.Excerpt)
		p.raw("</p>")
	}
	p.raw("</article>")
}

func tags(p *page, ts []TagLink) {
	if len(ts) == 0 {
		return
	}
	p.raw(`<ul class="tags">`)
	for _, t := range ts {
		p.raw(`<li class="tag"># `)
		p.link(t.Path, "", t.Title)
		p.raw("</li>")
	}
	p.raw("</ul>")
}

// Post renders a blog post with its table of contents and links to the
// neighbouring posts.
func Post(a Article) templ.Component {
	return Layout(a.Head, a.Chrome, component(func(ctx context.Context, p *page) {
		article(ctx, p, a)
		prevNext(p, a.Previous, a.Next)
	}))
}

// Page renders a standalone page.
func Page(a Article) templ.Component {
	return Layout(a.Head, a.Chrome, component(func(ctx context.Context, p *page) {
		article(ctx, p, a)
	}))
}

func article(ctx context.Context, p *page, a Article) {
	p.raw(`<article><header class="post-header">`)
	if a.Date != "" || a.Updated != "" {
		p.raw(`<ul class="meta">`)
		if a.Date != "" {
			p.raw(`<li class="date"><time`)
			p.attr("datetime", a.DateTime)
			p.raw(">")
			p.text(a.Date)
			p.raw("</time></li>")
		}
		if a.Updated != "" {
			p.raw(`<li class="date updated"><time`)
			p.attr("datetime", a.UpdatedTime)
			p.raw(">")
			p.text(a.Updated)
			p.raw("</time></li>")
		}
		p.raw("</ul>")
	}
	p.raw("<h1>")
	p.text(a.Title)
	p.raw("</h1>")
	tags(p, a.Tags)
	p.raw("</header>")
	contents(p, a.Chrome.Labels.Contents, a.Contents)
	p.raw(`<div class="stack">`)
	p.render(ctx, markdown.HTML(a.HTML))
	p.raw("</div></article>")
}

// contents renders the outline as a nested list.
func contents(p *page, title string, hs []markdown.Heading) {
	if len(hs) == 0 {
		return
	}
	p.raw(`<details class="toc"><summary>`)
	p.text(title)
	p.raw("</summary><ul>")
	top := hs[0].Level
	depth := 0
	for i, h := range hs {
		level := max(h.Level-top, 0)
		switch {
		case i == 0:
		case level > depth:
			for ; depth < level; depth++ {
				p.raw("<ul>")
			}
		case level < depth:
			p.raw("</li>")
			for ; depth > level; depth-- {
				p.raw("</ul></li>")
			}
		default:
			p.raw("</li>")
		}
		p.raw("<li>")
		p.link("#"+h.ID, "", h.Text)
	}
	p.raw("</li>")
	for ; depth > 0; depth-- {
		p.raw("</ul></li>")
	}
	p.raw("</ul></details>")
}

func prevNext(p *page, prev, next *plan.Sibling) {
	if prev == nil && next == nil {
		return
	}
	p.raw(`<ul class="prev-next">`)
	if next != nil {
		p.raw(`<li class="next">`)
		p.link(next.Path, "", "← "+next.Title)
		p.raw("</li>")
	}
	if prev != nil {
		p.raw(`<li class="previous">`)
		p.link(prev.Path, "", prev.Title+" →")
		p.raw("</li>")
	}
	p.raw("</ul>")
}

// NotFound renders the 404 page with a link back to the home page.
func NotFound(nf NotFoundPage) templ.Component {
	c := nf.Chrome
	return component(func(_ context.Context, p *page) {
		p.raw("<!DOCTYPE html>\n<html")
		p.attr("lang", c.Labels.Code)
		p.raw("><head><meta charset=\"utf-8\"><title>")
		p.text(c.SiteName)
		p.raw(`</title><link rel="stylesheet" href="/style.css"></head><body>`)
		header(p, c)
		p.raw(`<main><div class="container not-found"><p>`)
		p.text(c.Labels.NotFound)
		p.raw("</p>")
		p.link(c.HomePath, "home", c.Labels.BackToHome)
		p.raw("</div></main>")
		footer(p, c)
		p.raw("</body></html>\n")
	})
}
