package wiki

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	issueLinkPattern = regexp.MustCompile(`\[\[issue:(\d+)\]\]`)
	titleLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)
	slugUnsafe       = regexp.MustCompile(`[^a-z0-9]+`)
)

// IssueLinkRenderer turns [[issue:123]] into a link to the issue.
type IssueLinkRenderer struct {
	BaseURL string
}

func (r IssueLinkRenderer) Render(_ Page, source string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")
	return issueLinkPattern.ReplaceAllString(source, "[#$1]("+escapeReplacement(base)+"/issues/$1)")
}

// TitleLinkRenderer turns [[Page Title]] and [[Page Title|label]] into a
// link to the named page of the same project.
type TitleLinkRenderer struct {
	BaseURL string
}

func (r TitleLinkRenderer) Render(page Page, source string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")
	return titleLinkPattern.ReplaceAllStringFunc(source, func(m string) string {
		parts := titleLinkPattern.FindStringSubmatch(m)
		title := strings.TrimSpace(parts[1])
		label := strings.TrimSpace(parts[2])
		if label == "" {
			label = title
		}
		slug := Slugify(title)
		if slug == "" {
			return m
		}
		return fmt.Sprintf("[%s](%s/projects/%d/wiki/%s)", label, base, page.ProjectID, slug)
	})
}

// Slugify lowercases title and joins its alphanumeric runs with hyphens.
func Slugify(title string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// escapeReplacement protects literal '$' in a regexp replacement template.
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
