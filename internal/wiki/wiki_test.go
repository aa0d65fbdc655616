package wiki

import (
	"strings"
	"testing"
)

var testPage = Page{ProjectID: 7, ID: 3, Slug: "home"}

func TestIssueLinkRenderer(t *testing.T) {
	for _, tc := range []struct {
		name, base, in, want string
	}{
		{"single", "/", "see [[issue:42]]", "see [#42](/issues/42)"},
		{"base url", "https://bugs.example.com/", "[[issue:1]] and [[issue:2]]", "[#1](https://bugs.example.com/issues/1) and [#2](https://bugs.example.com/issues/2)"},
		{"not numeric", "/", "[[issue:abc]]", "[[issue:abc]]"},
		{"plain text", "/", "nothing here", "nothing here"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := IssueLinkRenderer{BaseURL: tc.base}.Render(testPage, tc.in)
			if got != tc.want {
				t.Errorf("Render(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTitleLinkRenderer(t *testing.T) {
	for _, tc := range []struct {
		name, in, want string
	}{
		{"title", "read [[Getting Started]]", "read [Getting Started](/projects/7/wiki/getting-started)"},
		{"label", "[[Release Notes|notes]]", "[notes](/projects/7/wiki/release-notes)"},
		{"punctuation", "[[FAQ: Build & Test!]]", "[FAQ: Build & Test!](/projects/7/wiki/faq-build-test)"},
		{"empty slug kept", "[[!!!]]", "[[!!!]]"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := TitleLinkRenderer{BaseURL: "/"}.Render(testPage, tc.in)
			if got != tc.want {
				t.Errorf("Render(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Home":              "home",
		"  Spaced  Out  ":   "spaced-out",
		"Version 2.0 Notes": "version-2-0-notes",
		"":                  "",
	} {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

// Issue links must expand before title links, otherwise [[issue:1]] would
// be treated as a page title.
func TestFormatter_Order(t *testing.T) {
	got := DefaultFormatter("/").Expand(testPage, "[[issue:9]] [[Home]]")
	want := "[#9](/issues/9) [Home](/projects/7/wiki/home)"
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}

	reversed := NewFormatter(TitleLinkRenderer{BaseURL: "/"}, IssueLinkRenderer{BaseURL: "/"})
	if got := reversed.Expand(testPage, "[[issue:9]]"); !strings.Contains(got, "/wiki/issue-9") {
		t.Errorf("reversed Expand = %q, expected title link", got)
	}
}

func TestFormatter_Format(t *testing.T) {
	html, err := DefaultFormatter("/").Format(testPage, "# Welcome\n\nFixed in [[issue:42]], see [[Release Notes]].\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	for _, want := range []string{
		`<h1 id="welcome">Welcome</h1>`,
		`<a href="/issues/42">#42</a>`,
		`<a href="/projects/7/wiki/release-notes">Release Notes</a>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}
}

func TestFormatter_OmitsRawHTML(t *testing.T) {
	html, err := DefaultFormatter("/").Format(testPage, "<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML leaked into output: %s", html)
	}
}

func TestFormatter_GFMTable(t *testing.T) {
	html, err := NewFormatter().Format(testPage, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected a table, got %s", html)
	}
}
