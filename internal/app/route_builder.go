package app

import (
	"path/filepath"

	"pedia/internal/domain/site"
	"pedia/internal/store"
)

// RouteBuilder expands the catalog into the full set of static outputs: the
// fixed pages plus one directory-index page per article.
type RouteBuilder struct{}

func (rb *RouteBuilder) Build(st *store.Store) []site.Route {
	routes := []site.Route{
		{Kind: site.RouteIndex, OutPath: "index.html"},
		{Kind: site.RouteSearch, OutPath: filepath.Join("search", "index.html")},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
		{Kind: site.RouteSitemap, OutPath: "sitemap.xml"},
		{Kind: site.RouteRobots, OutPath: "robots.txt"},
	}
	for _, a := range st.GetAll() {
		routes = append(routes, site.Route{
			Kind:      site.RouteArticle,
			ArticleID: a.ID,
			OutPath:   filepath.Join("article", a.ID, "index.html"),
		})
	}
	return routes
}
