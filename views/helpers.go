package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// page writes HTML and remembers the first error, so component bodies can be
// written as straight-line code and checked once.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *page) rawf(format string, args ...any) {
	p.raw(fmt.Sprintf(format, args...))
}

// text writes s escaped.
func (p *page) text(s string) { p.raw(templ.EscapeString(s)) }

// attr writes ` name="value"` with value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (p *page) link(href, class, label string) {
	p.raw("<a")
	p.attr("href", href)
	if class != "" {
		p.attr("class", class)
	}
	p.raw(">")
	p.text(label)
	p.raw("</a>")
}

func (p *page) render(ctx context.Context, c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}

func component(fn func(ctx context.Context, p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		fn(ctx, p)
		return p.err
	})
}

func itoa(n int) string { return strconv.Itoa(n) }
