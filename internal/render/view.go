package render

import (
	"pedia/internal/domain/config"
	"pedia/internal/domain/content"
	"pedia/internal/seo"
)

type ArticlePage struct {
	Site      config.SiteConfig
	Article   content.Article
	Doc       Document
	SEO       seo.Data
	PageTitle string
}

type HomePage struct {
	Site      config.SiteConfig
	Articles  []content.Article
	SEO       seo.Data
	PageTitle string
}

type SearchPage struct {
	Site      config.SiteConfig
	Query     string
	Results   []content.Article
	SEO       seo.Data
	PageTitle string
}

type NotFoundPage struct {
	Site config.SiteConfig
	Path string
	SEO  seo.Data
}
