package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderArticle(ctx context.Context, page ArticlePage) ([]byte, error)
	RenderSearch(ctx context.Context, page SearchPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
