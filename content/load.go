package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/eringen/route360/markdown"
)

// frontMatter is the YAML header of a content file. Dates stay strings so the
// accepted layouts are ours, not the YAML decoder's.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	LastMod  string   `yaml:"lastmod"`
	Tags     []string `yaml:"tags"`
	Draft    bool     `yaml:"draft"`
	Language string   `yaml:"language"`
	Type     string   `yaml:"type"`
}

// FrontmatterError reports a content file whose header cannot be used.
type FrontmatterError struct {
	Path  string
	Field string
	Err   error
}

func (e *FrontmatterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("content %s: frontmatter: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("content %s: frontmatter %s: %v", e.Path, e.Field, e.Err)
}

func (e *FrontmatterError) Unwrap() error { return e.Err }

// LoadOptions configures Load.
type LoadOptions struct {
	// Languages accepted as file names. Nil accepts any.
	Languages []string
	// Tags resolves tag slugs to titles.
	Tags []Tag
	// Logger receives warnings about unresolved tags. Defaults to slog.Default().
	Logger *slog.Logger
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q, use YYYY-MM-DD or RFC 3339", s)
}

// Load walks fsys and returns every markdown document in walk order, which is
// lexical and therefore stable across runs. The first malformed file aborts
// the load.
func Load(fsys fs.FS, opts LoadOptions) ([]Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	titles := make(map[string]string, len(opts.Tags))
	for _, t := range opts.Tags {
		titles[t.Slug] = t.Title
	}

	var docs []Document
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || path.Ext(name) != ".md" {
			return nil
		}

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		doc, err := parseDocument(p, raw, opts.Languages)
		if err != nil {
			return err
		}
		for i, t := range doc.Tags {
			title, ok := titles[t.Slug]
			if !ok {
				logger.Warn("tag has no entry in the tag table", "tag", t.Slug, "path", p)
			}
			doc.Tags[i].Title = title
		}
		doc.Order = len(docs)
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func parseDocument(rel string, raw []byte, languages []string) (Document, error) {
	fields, err := DeriveFields(rel, languages)
	if err != nil {
		return Document{}, err
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Document{}, &FrontmatterError{Path: rel, Err: err}
	}
	if fm.Language != "" && fm.Language != fields.Language {
		return Document{}, &FrontmatterError{Path: rel, Field: "language",
			Err: fmt.Errorf("declares %q but the file name says %q", fm.Language, fields.Language)}
	}
	if fm.Type != "" && fm.Type != fields.Type {
		return Document{}, &FrontmatterError{Path: rel, Field: "type",
			Err: fmt.Errorf("declares %q but the directory says %q", fm.Type, fields.Type)}
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Document{}, &FrontmatterError{Path: rel, Field: "title", Err: fmt.Errorf("required")}
	}

	doc := Document{
		ID:         DocumentID(rel),
		Language:   fields.Language,
		Type:       fields.Type,
		Slug:       fields.Slug,
		Title:      fm.Title,
		Draft:      fm.Draft,
		Body:       string(body),
		SourcePath: rel,
	}

	switch {
	case fm.Date != "":
		if doc.Date, err = parseDate(fm.Date); err != nil {
			return Document{}, &FrontmatterError{Path: rel, Field: "date", Err: err}
		}
	case doc.IsPost():
		return Document{}, &FrontmatterError{Path: rel, Field: "date", Err: fmt.Errorf("required for posts")}
	}
	if fm.LastMod != "" {
		if doc.LastMod, err = parseDate(fm.LastMod); err != nil {
			return Document{}, &FrontmatterError{Path: rel, Field: "lastmod", Err: err}
		}
	}

	seen := make(map[string]bool, len(fm.Tags))
	for _, slug := range fm.Tags {
		slug = strings.TrimSpace(slug)
		if slug == "" || seen[slug] {
			continue
		}
		if err := checkSlug(slug, false); err != nil {
			return Document{}, &FrontmatterError{Path: rel, Field: "tags", Err: err}
		}
		seen[slug] = true
		doc.Tags = append(doc.Tags, TagRef{Slug: slug})
	}

	rendered, err := markdown.Convert(body)
	if err != nil {
		return Document{}, fmt.Errorf("render %s: %w", rel, err)
	}
	doc.HTML = rendered.HTML
	doc.Plain = rendered.Plain
	doc.WordCount = rendered.Words
	doc.Headings = rendered.Headings
	return doc, nil
}
