package content

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTags reads the tag table at name in fsys. The file is a list of
// {slug, title} objects written as JSON or YAML. A missing file yields an
// empty table.
func LoadTags(fsys fs.FS, name string) ([]Tag, error) {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	return ParseTags(raw)
}

// ParseTags decodes a tag table and checks that every slug is present,
// URL-safe and unique. The result is sorted by slug.
func ParseTags(raw []byte) ([]Tag, error) {
	var tags []Tag
	if err := yaml.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	seen := make(map[string]bool, len(tags))
	for i, t := range tags {
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" {
			return nil, fmt.Errorf("tag %d: missing slug", i)
		}
		if err := checkSlug(t.Slug, false); err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		if seen[t.Slug] {
			return nil, fmt.Errorf("tag %q: defined twice", t.Slug)
		}
		seen[t.Slug] = true
		if t.Title == "" {
			t.Title = t.Slug
		}
		tags[i] = t
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Slug < tags[j].Slug })
	return tags, nil
}
