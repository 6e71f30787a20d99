package seo

import (
	"fmt"
	"strings"

	"pedia/internal/domain/config"
	"pedia/internal/domain/content"
	"pedia/internal/domain/site"
)

// Data is the search-engine-facing description of one page. It is a plain
// value derived from catalog data; the page head template is the single sink
// that turns it into tags, and re-rendering replaces rather than appends.
type Data struct {
	Title          string
	Description    string
	Keywords       []string
	CanonicalURL   string
	OGType         string
	OGImage        string
	StructuredData []map[string]any
}

const descriptionLimit = 160

// ForArticle derives the SEO record for one article. Every derivation has a
// total fallback; an article with no paragraph text still gets a description.
func ForArticle(a content.Article, sc config.SiteConfig) Data {
	desc := description(a)
	if desc == "" {
		desc = fmt.Sprintf("Learn about %s on %s, the free encyclopedia.", a.Title, sc.Title)
	}
	kw := keywords(a, sc.Title)
	canonical := sc.BaseURL + site.ArticlePath(a.ID)

	return Data{
		Title:        a.Title + " - " + sc.Title,
		Description:  desc,
		Keywords:     kw,
		CanonicalURL: canonical,
		OGType:       "article",
		StructuredData: []map[string]any{
			articleLD(a, sc, desc, kw, canonical),
			breadcrumbLD(a, sc, canonical),
		},
	}
}

// ForHome derives the SEO record for the main page.
func ForHome(sc config.SiteConfig) Data {
	title := sc.Title
	if sc.Subtitle != "" {
		title = sc.Title + " - " + sc.Subtitle
	}
	return Data{
		Title:        title,
		Description:  sc.Description,
		Keywords:     []string{sc.Title, "encyclopedia", "free", "knowledge", "education", "reference"},
		CanonicalURL: sc.BaseURL,
		OGType:       "website",
		StructuredData: []map[string]any{
			websiteLD(sc),
		},
	}
}

// ForNotFound covers the not-found presentation state.
func ForNotFound(sc config.SiteConfig) Data {
	return Data{
		Title:        "Page not found - " + sc.Title,
		Description:  "The page you were looking for does not exist on " + sc.Title + ".",
		Keywords:     []string{sc.Title, "encyclopedia"},
		CanonicalURL: sc.BaseURL,
		OGType:       "website",
	}
}

// description joins the first two paragraph blocks, collapses whitespace and
// truncates to the meta-description length limit.
func description(a content.Article) string {
	var parts []string
	for _, b := range a.Content {
		if b.Type != content.BlockParagraph {
			continue
		}
		parts = append(parts, b.Text)
		if len(parts) == 2 {
			break
		}
	}
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return truncate(text, descriptionLimit)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// keywords is the union of categories, long title words and a small set of
// generic terms. Duplicates are harmless and not filtered.
func keywords(a content.Article, siteTitle string) []string {
	out := make([]string, 0, len(a.Categories)+8)
	out = append(out, a.Categories...)
	for _, w := range strings.Fields(a.Title) {
		if len([]rune(w)) > 3 {
			out = append(out, w)
		}
	}
	out = append(out, siteTitle, "encyclopedia", "knowledge")
	return out
}

func articleLD(a content.Article, sc config.SiteConfig, desc string, kw []string, canonical string) map[string]any {
	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    a.Title,
		"description": desc,
		"author": map[string]any{
			"@type": "Organization",
			"name":  sc.Title + " Contributors",
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  sc.Title,
			"logo": map[string]any{
				"@type": "ImageObject",
				"url":   sc.BaseURL + "/favicon.svg",
			},
		},
		"dateModified":  a.LastModified,
		"datePublished": a.LastModified,
		"mainEntityOfPage": map[string]any{
			"@type": "WebPage",
			"@id":   canonical,
		},
		"inLanguage":          sc.Language,
		"isAccessibleForFree": true,
		"genre":               a.Categories,
		"keywords":            strings.Join(kw, ", "),
	}
}

func breadcrumbLD(a content.Article, sc config.SiteConfig, canonical string) map[string]any {
	return map[string]any{
		"@context": "https://schema.org",
		"@type":    "BreadcrumbList",
		"itemListElement": []map[string]any{
			{
				"@type":    "ListItem",
				"position": 1,
				"name":     sc.Title,
				"item":     sc.BaseURL,
			},
			{
				"@type":    "ListItem",
				"position": 2,
				"name":     a.Title,
				"item":     canonical,
			},
		},
	}
}

func websiteLD(sc config.SiteConfig) map[string]any {
	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        sc.Title,
		"description": sc.Description,
		"url":         sc.BaseURL,
		"potentialAction": map[string]any{
			"@type": "SearchAction",
			"target": map[string]any{
				"@type":       "EntryPoint",
				"urlTemplate": sc.BaseURL + "/search?q={search_term_string}",
			},
			"query-input": "required name=search_term_string",
		},
	}
}
