package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/route360/plan"
)

// PageLink is one item of the pagination bar. Dots items are gaps.
type PageLink struct {
	Number  int
	Current bool
	Dots    bool
}

// PageLinks returns the items of the pagination bar for w: the first page, a
// gap when the window is far from it, up to two pages either side of the
// current one, a gap, and the last page.
func PageLinks(w plan.Window) []PageLink {
	cur, total := w.CurrentPage, w.TotalPages
	var out []PageLink
	if cur != 1 {
		out = append(out, PageLink{Number: 1})
	}
	if cur > 4 {
		out = append(out, PageLink{Dots: true})
	}
	if cur > 3 {
		out = append(out, PageLink{Number: cur - 2})
	}
	if cur > 2 {
		out = append(out, PageLink{Number: cur - 1})
	}
	out = append(out, PageLink{Number: cur, Current: true})
	if cur+1 < total {
		out = append(out, PageLink{Number: cur + 1})
	}
	if cur+2 < total {
		out = append(out, PageLink{Number: cur + 2})
	}
	if cur+3 < total {
		out = append(out, PageLink{Dots: true})
	}
	if !w.IsLast {
		out = append(out, PageLink{Number: total})
	}
	return out
}

// Pagination renders the pagination bar of an index (tag empty) or tag
// archive. Nothing is rendered for a single page.
func Pagination(lang, tag string, w plan.Window) templ.Component {
	return component(func(_ context.Context, p *page) {
		if w.TotalPages <= 1 {
			return
		}
		p.raw(`<nav class="pagination" role="navigation" aria-label="post">`)
		for _, l := range PageLinks(w) {
			switch {
			case l.Dots:
				p.raw(`<span class="page-number dots">…</span>`)
			case l.Current:
				p.rawf(`<span aria-current="page" class="page-number current">%d</span>`, l.Number)
			default:
				href := plan.IndexPath(lang, l.Number)
				if tag != "" {
					href = plan.TagPath(lang, tag, l.Number)
				}
				p.link(href, "page-number", itoa(l.Number))
			}
		}
		p.raw("</nav>")
	})
}
