package site

import "strings"

type RouteKind string

const (
	RouteIndex    RouteKind = "index"
	RouteArticle  RouteKind = "article"
	RouteSearch   RouteKind = "search"
	RouteSitemap  RouteKind = "sitemap"
	RouteRobots   RouteKind = "robots"
	RouteNotFound RouteKind = "404"
)

// Route is one output of the static build: a page kind, the article it
// belongs to (article pages only), and where it lands under the public dir.
type Route struct {
	Kind      RouteKind
	ArticleID string
	OutPath   string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.ArticleID != "" {
		parts = append(parts, "id="+r.ArticleID)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// ArticlePath is the URL path for one article, shared by the router, the
// renderer's see-also links, and the SEO canonical URL.
func ArticlePath(id string) string {
	return "/article/" + id
}
