// Package i18n holds the per-language label table and the path rules shared by
// the page planner, the sitemap and the SEO head: which language a path belongs
// to and which paths are the same page in another language.
package i18n

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Labels are the translated strings the templates and SEO metadata need.
type Labels struct {
	Code        string // "en"
	Name        string // language name shown in the switcher
	Description string // site description
	Locale      string // Open Graph locale, e.g. "en_US"
	Home        string
	BackToHome  string
	Contents    string // table of contents heading
	NotFound    string
	// PageIndex receives the current page and the page count.
	PageIndex string
	// ArchiveTitle receives the tag title.
	ArchiveTitle string
}

// DefaultLanguage is the language used for x-default links and the 404 page.
const DefaultLanguage = "en"

var table = []Labels{
	{
		Code:         "en",
		Name:         "English",
		Description:  "Blog by a frontend developer",
		Locale:       "en_US",
		Home:         "Home",
		BackToHome:   "Back to Home",
		Contents:     "Table of Contents",
		NotFound:     "404 Not Found",
		PageIndex:    "Page %[1]d of %[2]d",
		ArchiveTitle: "# %s archive",
	},
	{
		Code:         "fr",
		Name:         "français",
		Description:  "Blog par une développeuse front-end",
		Locale:       "fr_FR",
		Home:         "Accueil",
		BackToHome:   "Retour à la page d'accueil",
		Contents:     "Table des matières",
		NotFound:     "404 Page introuvable",
		PageIndex:    "Page %[1]d de %[2]d",
		ArchiveTitle: "# %s archive",
	},
	{
		Code:         "ja",
		Name:         "日本語",
		Description:  "フロントエンドの開発記録",
		Locale:       "ja_JP",
		Home:         "ホーム",
		BackToHome:   "ホームに戻る",
		Contents:     "目次",
		NotFound:     "404 ページが見つかりません",
		PageIndex:    "%[1]dページ目 (%[2]dページ中)",
		ArchiveTitle: "# %s アーカイブ",
	},
}

var byCode = func() map[string]Labels {
	m := make(map[string]Labels, len(table))
	for _, l := range table {
		m[l.Code] = l
	}
	return m
}()

// Codes returns the supported language codes in table order.
func Codes() []string {
	codes := make([]string, len(table))
	for i, l := range table {
		codes[i] = l.Code
	}
	return codes
}

// Supported reports whether code is a supported language.
func Supported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Get returns the labels for code. Unknown codes fall back to the default language.
func Get(code string) Labels {
	if l, ok := byCode[code]; ok {
		return l
	}
	return byCode[DefaultLanguage]
}

// PageIndexText formats the "page x of y" label.
func (l Labels) PageIndexText(current, total int) string {
	return fmt.Sprintf(l.PageIndex, current, total)
}

// ArchiveTitleText formats the tag archive heading.
func (l Labels) ArchiveTitleText(title string) string {
	return fmt.Sprintf(l.ArchiveTitle, title)
}

// ValidationError reports a broken label table.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("i18n: language %q: %s", e.Code, e.Reason)
}

// Validate checks that the table covers every language in want exactly once and
// that every entry is complete.
func Validate(want []string) error {
	return validate(table, want)
}

func validate(entries []Labels, want []string) error {
	wanted := make(map[string]bool, len(want))
	for _, code := range want {
		wanted[code] = true
	}
	seen := make(map[string]bool, len(entries))
	for _, l := range entries {
		if seen[l.Code] {
			return &ValidationError{Code: l.Code, Reason: "defined more than once"}
		}
		seen[l.Code] = true
		if !wanted[l.Code] {
			return &ValidationError{Code: l.Code, Reason: "not a supported language"}
		}
		if _, err := language.Parse(strings.ReplaceAll(l.Locale, "_", "-")); err != nil {
			return &ValidationError{Code: l.Code, Reason: fmt.Sprintf("bad locale %q: %v", l.Locale, err)}
		}
		fields := []struct{ name, value string }{
			{"description", l.Description},
			{"home label", l.Home},
			{"back to home label", l.BackToHome},
			{"contents label", l.Contents},
			{"not found label", l.NotFound},
			{"page index template", l.PageIndex},
			{"archive title template", l.ArchiveTitle},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				return &ValidationError{Code: l.Code, Reason: "missing " + f.name}
			}
		}
	}
	for _, code := range want {
		if !seen[code] {
			return &ValidationError{Code: code, Reason: "no labels defined"}
		}
	}
	return nil
}

var reLangPrefix = regexp.MustCompile(`^/([a-z]{2})/`)

// LangOf returns the two-letter language prefix of path, or "" when path has
// none.
func LangOf(path string) string {
	m := reLangPrefix.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripLang removes the leading "/{lang}/" segment: "/en/post/a/" becomes
// "/post/a/" and "/en/" becomes "/". Paths without a language prefix are
// returned unchanged. Two paths are the same page in different languages when
// their stripped forms are equal.
func StripLang(path string) string {
	if LangOf(path) == "" {
		return path
	}
	return path[3:]
}

// SwapLang replaces the language segment of path with lang.
func SwapLang(path, lang string) string {
	if LangOf(path) == "" {
		return path
	}
	return "/" + lang + path[3:]
}

// Alternates maps every path to the languages in which an equivalent path
// exists among paths, in table order. A path only present in one language maps
// to that single language.
func Alternates(paths []string) map[string][]string {
	groups := make(map[string]map[string]bool)
	for _, p := range paths {
		lang := LangOf(p)
		if lang == "" {
			continue
		}
		key := StripLang(p)
		if groups[key] == nil {
			groups[key] = make(map[string]bool)
		}
		groups[key][lang] = true
	}
	out := make(map[string][]string, len(paths))
	for _, p := range paths {
		if LangOf(p) == "" {
			continue
		}
		set := groups[StripLang(p)]
		var langs []string
		for _, l := range table {
			if set[l.Code] {
				langs = append(langs, l.Code)
			}
		}
		// Two-letter prefixes outside the table still count.
		var extra []string
		for code := range set {
			if !Supported(code) {
				extra = append(extra, code)
			}
		}
		sort.Strings(extra)
		out[p] = append(langs, extra...)
	}
	return out
}
