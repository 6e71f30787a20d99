package seo

import (
	"encoding/xml"
	"time"

	"pedia/internal/domain/config"
	"pedia/internal/domain/content"
	"pedia/internal/domain/site"
)

type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Sitemap lists the crawlable URLs: the homepage plus one entry per article,
// in catalog order. Article lastmod comes straight from the catalog.
func Sitemap(articles []content.Article, sc config.SiteConfig, now time.Time) []SitemapURL {
	today := now.Format("2006-01-02")
	urls := make([]SitemapURL, 0, len(articles)+1)
	urls = append(urls, SitemapURL{
		Loc:        sc.BaseURL,
		LastMod:    today,
		ChangeFreq: "daily",
		Priority:   "1.0",
	})
	for _, a := range articles {
		lastmod := a.LastModified
		if lastmod == "" {
			lastmod = today
		}
		urls = append(urls, SitemapURL{
			Loc:        sc.BaseURL + site.ArticlePath(a.ID),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return urls
}

func SitemapXML(articles []content.Article, sc config.SiteConfig, now time.Time) ([]byte, error) {
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  Sitemap(articles, sc, now),
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func RobotsTxt(baseURL string) string {
	return `User-agent: *
Allow: /

Sitemap: ` + baseURL + `/sitemap.xml

# Crawl-delay for respectful crawling
Crawl-delay: 1

# Allow search engines to index all content
Allow: /article/
Allow: /search

# Block any admin or private areas (if they exist)
Disallow: /admin/
Disallow: /private/
`
}
