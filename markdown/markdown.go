// Package markdown converts post bodies to HTML with goldmark and derives the
// plain-text forms the site needs: excerpts, word counts and a heading outline.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Rendered is the result of converting one markdown body.
type Rendered struct {
	HTML     string
	Plain    string
	Words    int
	Headings []Heading
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// Convert renders src to HTML and extracts its plain text and headings.
func Convert(src []byte) (Rendered, error) {
	root := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, root); err != nil {
		return Rendered{}, err
	}

	plain := plainText(root, src)
	return Rendered{
		HTML:     buf.String(),
		Plain:    plain,
		Words:    wordCount(plain),
		Headings: headings(root, src),
	}, nil
}

// wordCount counts space-separated words containing a letter or digit. Scripts
// written without spaces count one word per character, the usual length
// measure for Japanese and Chinese text.
func wordCount(s string) int {
	n := 0
	inWord, counted := false, false
	for _, r := range s {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) || r == 'ー':
			n++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				inWord, counted = true, false
			}
			if !counted && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				n++
				counted = true
			}
		}
	}
	return n
}

// plainText concatenates the text of every block, separating blocks with a
// space. Fenced code is kept, HTML blocks are dropped.
func plainText(root gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.HTMLBlock, *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *gmast.String:
			if entering {
				b.Write(node.Value)
			}
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				b.WriteByte(' ')
			}
			return gmast.WalkSkipChildren, nil
		default:
			if !entering && n.Type() == gmast.TypeBlock {
				b.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func headings(root gmast.Node, src []byte) []Heading {
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !ok || !entering {
			return gmast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{
			Level: h.Level,
			ID:    id,
			Text:  plainText(h, src),
		})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// Excerpt cuts plain text to at most n runes, appending an ellipsis when the
// text was longer. The cut does not wait for a word boundary, so it behaves
// the same for languages written without spaces.
func Excerpt(plain string, n int) string {
	if n <= 0 || utf8.RuneCountInString(plain) <= n {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimRight(string(runes[:n]), " ") + "…"
}

// Outline returns the headings between minLevel and maxLevel inclusive.
func Outline(hs []Heading, minLevel, maxLevel int) []Heading {
	var out []Heading
	for _, h := range hs {
		if h.Level >= minLevel && h.Level <= maxLevel && h.ID != "" {
			out = append(out, h)
		}
	}
	return out
}

// HTML returns a templ.Component that writes already rendered HTML.
func HTML(rendered string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}
