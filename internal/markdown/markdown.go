// Package markdown converts message text and session summaries to HTML.
package markdown

import (
	"bytes"
	"html"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Converter renders markdown with fenced code blocks and tables. Raw HTML
// in the source is not passed through.
type Converter struct {
	md goldmark.Markdown
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	hardWraps bool
}

// WithHardWraps renders every newline inside a paragraph as <br />.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// New builds a Converter.
func New(opts ...Option) *Converter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rendererOpts := []renderer.Option{gmhtml.WithXHTML()}
	if o.hardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Converter{md: md}
}

// Convert renders src to HTML. If goldmark fails the text is returned
// escaped inside a paragraph.
func (c *Converter) Convert(src string) string {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		log.Printf("warning: markdown conversion failed: %v", err)
		return "<p>" + html.EscapeString(src) + "</p>\n"
	}
	return buf.String()
}
