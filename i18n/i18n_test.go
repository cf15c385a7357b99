package i18n

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestValidateTable(t *testing.T) {
	if err := Validate([]string{"en", "fr", "ja"}); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	en := Get("en")
	tests := []struct {
		name    string
		entries []Labels
		want    []string
		code    string
	}{
		{"duplicate", []Labels{en, en}, []string{"en"}, "en"},
		{"missing language", []Labels{en}, []string{"en", "fr"}, "fr"},
		{"unsupported language", []Labels{en, Get("fr")}, []string{"en"}, "fr"},
		{"empty home label", []Labels{func() Labels { l := en; l.Home = " "; return l }()}, []string{"en"}, "en"},
		{"bad locale", []Labels{func() Labels { l := en; l.Locale = "!!"; return l }()}, []string{"en"}, "en"},
	}
	for _, tt := range tests {
		err := validate(tt.entries, tt.want)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: validate() = %v, want *ValidationError", tt.name, err)
			continue
		}
		if verr.Code != tt.code {
			t.Errorf("%s: error code = %q, want %q", tt.name, verr.Code, tt.code)
		}
	}
}

func TestCodesOrder(t *testing.T) {
	got := Codes()
	want := []string{"en", "fr", "ja"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	if got := Get("de").Code; got != DefaultLanguage {
		t.Errorf("Get(de).Code = %q, want %q", got, DefaultLanguage)
	}
}

func TestLabelTemplates(t *testing.T) {
	tests := []struct {
		lang      string
		pageIndex string
		archive   string
	}{
		{"en", "Page 2 of 3", "# Go archive"},
		{"fr", "Page 2 de 3", "# Go archive"},
		{"ja", "2ページ目 (3ページ中)", "# Go アーカイブ"},
	}
	for _, tt := range tests {
		l := Get(tt.lang)
		if got := l.PageIndexText(2, 3); got != tt.pageIndex {
			t.Errorf("%s PageIndexText = %q, want %q", tt.lang, got, tt.pageIndex)
		}
		if got := l.ArchiveTitleText("Go"); got != tt.archive {
			t.Errorf("%s ArchiveTitleText = %q, want %q", tt.lang, got, tt.archive)
		}
	}
}

func TestStripAndSwapLang(t *testing.T) {
	tests := []struct {
		path     string
		lang     string
		stripped string
		swapped  string
	}{
		{"/en/post/hello/", "en", "/post/hello/", "/fr/post/hello/"},
		{"/ja/", "ja", "/", "/fr/"},
		{"/fr/tag/go/page/2/", "fr", "/tag/go/page/2/", "/fr/tag/go/page/2/"},
		{"/rss.en.xml", "", "/rss.en.xml", "/rss.en.xml"},
	}
	for _, tt := range tests {
		if got := LangOf(tt.path); got != tt.lang {
			t.Errorf("LangOf(%q) = %q, want %q", tt.path, got, tt.lang)
		}
		if got := StripLang(tt.path); got != tt.stripped {
			t.Errorf("StripLang(%q) = %q, want %q", tt.path, got, tt.stripped)
		}
		if got := SwapLang(tt.path, "fr"); got != tt.swapped {
			t.Errorf("SwapLang(%q, fr) = %q, want %q", tt.path, got, tt.swapped)
		}
	}
}

func TestAlternates(t *testing.T) {
	paths := []string{"/ja/about/", "/en/about/", "/fr/about/", "/en/secret/", "/fr/post/x/", "/ja/post/x/"}
	got := Alternates(paths)

	all := []string{"en", "fr", "ja"}
	for _, p := range []string{"/en/about/", "/fr/about/", "/ja/about/"} {
		if !reflect.DeepEqual(got[p], all) {
			t.Errorf("Alternates[%q] = %v, want %v", p, got[p], all)
		}
	}
	if want := []string{"en"}; !reflect.DeepEqual(got["/en/secret/"], want) {
		t.Errorf("Alternates[/en/secret/] = %v, want %v", got["/en/secret/"], want)
	}
	if want := []string{"fr", "ja"}; !reflect.DeepEqual(got["/ja/post/x/"], want) {
		t.Errorf("Alternates[/ja/post/x/] = %v, want %v", got["/ja/post/x/"], want)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, time.February, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Feb 05 2023"},
		{"fr", "05 févr. 2023"},
		{"ja", "2023/2/5"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.lang, d); got != tt.want {
			t.Errorf("FormatDate(%s) = %q, want %q", tt.lang, got, tt.want)
		}
	}
	if got := FormatDate("en", time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q, want empty", got)
	}
}
