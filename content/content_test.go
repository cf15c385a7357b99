package content

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

var langs = []string{"en", "fr", "ja"}

func TestDeriveFields(t *testing.T) {
	tests := []struct {
		rel  string
		want Fields
	}{
		{"posts/hello-world/en.md", Fields{Language: "en", Slug: "hello-world", Type: TypePost}},
		{"pages/about/ja.md", Fields{Language: "ja", Slug: "about", Type: TypePage}},
		{"posts/2023/deep/fr.md", Fields{Language: "fr", Slug: "2023/deep", Type: TypePost}},
		{"/posts/x/en.md", Fields{Language: "en", Slug: "x", Type: TypePost}},
	}
	for _, tt := range tests {
		got, err := DeriveFields(tt.rel, langs)
		require.NoError(t, err, tt.rel)
		require.Equal(t, tt.want, got, tt.rel)
	}
}

func TestDeriveFieldsRejectsBadLayout(t *testing.T) {
	for _, rel := range []string{
		"en.md",
		"posts/en.md",
		"drafts/x/en.md",
		"posts/x/de.md",
		"posts/x/.md",
		"posts/hello world/en.md",
		"pages/a?b/en.md",
		"posts/café/en.md",
	} {
		_, err := DeriveFields(rel, langs)
		var pe *PathError
		require.ErrorAs(t, err, &pe, rel)
		require.NotEmpty(t, pe.Path)
	}
}

func TestDocumentIDIsStable(t *testing.T) {
	a := DocumentID("posts/x/en.md")
	require.Equal(t, a, DocumentID("posts/x/en.md"))
	require.NotEqual(t, a, DocumentID("posts/x/fr.md"))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/hello/en.md": {Data: []byte("---\ntitle: Hello\ndate: 2023-02-05\nlastmod: 2023-03-01T10:00:00Z\ntags: [go, web, go]\n---\n## Intro\n\nFirst post.\n")},
		"posts/hello/fr.md": {Data: []byte("---\ntitle: Bonjour\ndate: 2023-02-05\ndraft: true\n---\nPremier.\n")},
		"pages/about/en.md": {Data: []byte("---\ntitle: About\n---\nAbout me.\n")},
		"posts/_wip/en.md":  {Data: []byte("not frontmatter")},
		"posts/hello/a.png": {Data: []byte{0x89}},
		".git/config":       {Data: []byte("x")},
	}
	tags := []Tag{{Slug: "go", Title: "Go"}}

	docs, err := Load(fsys, LoadOptions{Languages: langs, Tags: tags})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	about, hello, bonjour := docs[0], docs[1], docs[2]
	require.Equal(t, "pages/about/en.md", about.SourcePath)
	require.Equal(t, TypePage, about.Type)
	require.True(t, about.Date.IsZero())

	require.Equal(t, "Hello", hello.Title)
	require.Equal(t, time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC), hello.Date)
	require.True(t, hello.Updated())
	require.Equal(t, []TagRef{{Slug: "go", Title: "Go"}, {Slug: "web"}}, hello.Tags)
	require.Contains(t, hello.HTML, `<h2 id="intro">Intro</h2>`)
	require.Equal(t, "Intro First post.", hello.Plain)
	require.Equal(t, 1, hello.Order)

	require.True(t, bonjour.Draft)
	require.Equal(t, "fr", bonjour.Language)
}

func TestLoadFrontmatterErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"no title", "---\ndate: 2023-01-01\n---\nx", "title"},
		{"post without date", "---\ntitle: T\n---\nx", "date"},
		{"bad date", "---\ntitle: T\ndate: yesterday\n---\nx", "date"},
		{"language mismatch", "---\ntitle: T\ndate: 2023-01-01\nlanguage: fr\n---\nx", "language"},
		{"type mismatch", "---\ntitle: T\ndate: 2023-01-01\ntype: pages\n---\nx", "type"},
		{"tag escapes the archive", "---\ntitle: T\ndate: 2023-01-01\ntags: [\"../../../escaped\"]\n---\nx", "tags"},
		{"tag with a slash", "---\ntitle: T\ndate: 2023-01-01\ntags: [a/b]\n---\nx", "tags"},
		{"tag with a space", "---\ntitle: T\ndate: 2023-01-01\ntags: [two words]\n---\nx", "tags"},
		{"dot tag", "---\ntitle: T\ndate: 2023-01-01\ntags: [\"..\"]\n---\nx", "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"posts/p/en.md": {Data: []byte(tt.data)}}
			_, err := Load(fsys, LoadOptions{Languages: langs})
			var fe *FrontmatterError
			require.True(t, errors.As(err, &fe), "err = %v", err)
			require.Equal(t, tt.field, fe.Field)
			require.Equal(t, "posts/p/en.md", fe.Path)
		})
	}
}

func TestLoadPathError(t *testing.T) {
	fsys := fstest.MapFS{"notes/p/en.md": {Data: []byte("---\ntitle: T\n---\n")}}
	_, err := Load(fsys, LoadOptions{Languages: langs})
	var pe *PathError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "notes/p/en.md", pe.Path)
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags([]byte(`[{"slug":"web","title":"Web"},{"slug":"go","title":"Go"},{"slug":"misc"}]`))
	require.NoError(t, err)
	require.Equal(t, []Tag{{"go", "Go"}, {"misc", "misc"}, {"web", "Web"}}, tags)

	tags, err = ParseTags([]byte("- slug: go\n  title: Go\n"))
	require.NoError(t, err)
	require.Equal(t, []Tag{{"go", "Go"}}, tags)

	_, err = ParseTags([]byte(`[{"slug":"go"},{"slug":"go"}]`))
	require.Error(t, err)
	_, err = ParseTags([]byte(`[{"title":"x"}]`))
	require.Error(t, err)
	_, err = ParseTags([]byte(`[{"slug":"../up"}]`))
	require.ErrorContains(t, err, "../up")
}

func TestCheckSlug(t *testing.T) {
	tests := []struct {
		slug   string
		nested bool
		ok     bool
	}{
		{"go", false, true},
		{"hello-world", false, true},
		{"v1.2_rc~1", false, true},
		{"2023/deep", true, true},
		{"2023/deep", false, false},
		{"", false, false},
		{".", false, false},
		{"..", false, false},
		{"a/../b", true, false},
		{"a//b", true, false},
		{"/a", true, false},
		{"a b", false, false},
		{"a?b", false, false},
		{"日本", false, false},
	}
	for _, tt := range tests {
		err := checkSlug(tt.slug, tt.nested)
		require.Equal(t, tt.ok, err == nil, "checkSlug(%q, %v) = %v", tt.slug, tt.nested, err)
	}
}

func TestLoadTagsMissingFile(t *testing.T) {
	tags, err := LoadTags(fstest.MapFS{}, "tags.json")
	require.NoError(t, err)
	require.Empty(t, tags)
}
