package content

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Fields are the values derived from a document's location.
type Fields struct {
	Language string
	Slug     string
	Type     string
}

// PathError reports a content file whose location does not follow the
// {type}/{slug}/{lang}.md layout.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("content %s: %s", e.Path, e.Reason)
}

// DeriveFields computes language, slug and type from rel, a slash-separated
// path relative to the content root. The type is the first directory segment,
// the slug is the rest of the directory and the language is the file name
// without its extension. supported lists the accepted languages; nil accepts
// any.
func DeriveFields(rel string, supported []string) (Fields, error) {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	dir, file := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")

	typ, slug, ok := strings.Cut(dir, "/")
	if !ok || typ == "" || slug == "" {
		return Fields{}, &PathError{Path: rel, Reason: "expected {type}/{slug}/{lang}.md"}
	}
	if typ != TypePost && typ != TypePage {
		return Fields{}, &PathError{Path: rel, Reason: fmt.Sprintf("unknown content type %q", typ)}
	}
	if err := checkSlug(slug, true); err != nil {
		return Fields{}, &PathError{Path: rel, Reason: err.Error()}
	}

	lang := strings.TrimSuffix(file, path.Ext(file))
	if lang == "" {
		return Fields{}, &PathError{Path: rel, Reason: "missing language file name"}
	}
	if supported != nil && !slices.Contains(supported, lang) {
		return Fields{}, &PathError{Path: rel, Reason: fmt.Sprintf("unsupported language %q", lang)}
	}

	return Fields{Language: lang, Slug: slug, Type: typ}, nil
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://route360.dev/content"))

// DocumentID returns a stable id for the file at rel.
func DocumentID(rel string) string {
	return uuid.NewSHA1(idNamespace, []byte(rel)).String()
}
