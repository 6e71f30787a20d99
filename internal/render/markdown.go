package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// InlineRenderer converts the inline wiki markup allowed in paragraph text,
// list items and captions (emphasis, links, code spans) into HTML fragments.
type InlineRenderer struct {
	md goldmark.Markdown
}

func NewInlineRenderer() *InlineRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Strikethrough,
		),
	)
	return &InlineRenderer{md: md}
}

// Render never fails a document: if the markup cannot be converted, the
// escaped plain text is the fallback.
func (r *InlineRenderer) Render(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	out := strings.TrimSpace(buf.String())

	// A single-paragraph fragment gets unwrapped; the enclosing element is
	// the caller's business.
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}
