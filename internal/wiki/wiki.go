// Package wiki renders wiki page source for preview. Source passes through
// a fixed, ordered list of renderers that expand tracker link syntax into
// markdown, and the result is converted to HTML.
package wiki

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Page identifies the page being rendered.
type Page struct {
	ProjectID int64
	ID        int64
	Slug      string
}

// Renderer rewrites one fragment of page source.
type Renderer interface {
	Render(page Page, source string) string
}

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

// getMarkdown returns the shared converter. Raw HTML in the source is
// omitted from the output.
func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		)
	})
	return markdownInstance
}

// Formatter applies its renderers in order and then converts the markdown
// to HTML. The renderer list is fixed at construction.
type Formatter struct {
	renderers []Renderer
}

// NewFormatter returns a Formatter running renderers in the given order.
func NewFormatter(renderers ...Renderer) *Formatter {
	return &Formatter{renderers: renderers}
}

// DefaultFormatter links issues first, then page titles, under baseURL.
func DefaultFormatter(baseURL string) *Formatter {
	return NewFormatter(
		IssueLinkRenderer{BaseURL: baseURL},
		TitleLinkRenderer{BaseURL: baseURL},
	)
}

// Expand runs the renderer list without converting to HTML.
func (f *Formatter) Expand(page Page, source string) string {
	for _, r := range f.renderers {
		source = r.Render(page, source)
	}
	return source
}

// Format renders source to HTML.
func (f *Formatter) Format(page Page, source string) (string, error) {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(f.Expand(page, source)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
