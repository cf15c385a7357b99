package content

import (
	"errors"
	"fmt"
	"strings"
)

// checkSlug reports whether s can be used as a URL path segment. nested allows
// "/" between segments, as in document slugs like "2023/deep".
func checkSlug(s string, nested bool) error {
	if s == "" {
		return errors.New("empty slug")
	}
	segments := []string{s}
	if nested {
		segments = strings.Split(s, "/")
	}
	for _, seg := range segments {
		switch seg {
		case "":
			return fmt.Errorf("slug %q has an empty segment", s)
		case ".", "..":
			return fmt.Errorf("slug %q contains a relative segment", s)
		}
		for _, r := range seg {
			if !slugRune(r) {
				return fmt.Errorf("slug %q contains %q, use letters, digits, '-', '_', '.' or '~'", s, r)
			}
		}
	}
	return nil
}

// slugRune matches the unreserved characters of RFC 3986.
func slugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == '-' || r == '_' || r == '.' || r == '~'
}
