package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"pedia/internal/domain/content"
	"pedia/internal/domain/site"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

//go:embed static
var defaultStatic embed.FS

// TemplateRenderer renders pages through the embedded default theme. A theme
// directory on disk, when present, overrides templates by name.
type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(defaultTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if themeDir != "" {
		pattern := filepath.Join(themeDir, themeName, "templates", "*.tmpl")
		if matches, _ := filepath.Glob(pattern); len(matches) > 0 {
			tpl, err = tpl.ParseGlob(pattern)
			if err != nil {
				return nil, err
			}
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

// StaticFS is the embedded static asset tree shipped with the binary; serve
// and build fall back to it when the on-disk theme has no static dir.
func StaticFS() fs.FS {
	sub, err := fs.Sub(defaultStatic, "static")
	if err != nil {
		return defaultStatic
	}
	return sub
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"nowYear": func() int {
			return time.Now().Year()
		},
		"articleURL": func(a content.Article) string {
			return site.ArticlePath(a.ID)
		},
		"heading": headingHTML,
		"jsonld":  jsonLD,
		"add":     func(a, b int) int { return a + b },
	}
}

// headingHTML builds the whole heading element so the tag name can carry the
// clamped level; html/template cannot produce dynamic tag names itself.
func headingHTML(b Block) template.HTML {
	return template.HTML(fmt.Sprintf(
		"<h%d id=%q>%s</h%d>",
		b.Level, b.Anchor, template.HTMLEscapeString(b.Text), b.Level,
	))
}

func jsonLD(v any) (template.HTML, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return template.HTML("<script type=\"application/ld+json\">\n" + string(data) + "\n</script>"), nil
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderArticle(ctx context.Context, page ArticlePage) ([]byte, error) {
	return r.exec("article.tmpl", page)
}

func (r *TemplateRenderer) RenderSearch(ctx context.Context, page SearchPage) ([]byte, error) {
	return r.exec("search.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
