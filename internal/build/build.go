package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"pedia/internal/app"
	"pedia/internal/domain/config"
	"pedia/internal/domain/site"
	"pedia/internal/render"
	"pedia/internal/seo"
	"pedia/internal/store"
)

// Builder pre-renders the whole site into the public dir: home, every
// article page, the search page shell, 404, sitemap.xml and robots.txt,
// plus the theme's static assets.
type Builder struct {
	Cfg       config.Config
	Log       *zap.SugaredLogger
	CachePath string
}

type Result struct {
	Articles int
	Pages    int
	Skipped  int
	Warnings []store.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, warns, err := store.LoadDir(b.Cfg.Build.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, w := range warns {
		b.Log.Warnw("catalog warning", "path", w.Path, "msg", w.Msg)
	}
	b.Log.Infow("catalog loaded", "articles", st.Len())

	cache, err := OpenCache(b.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open build cache: %w", err)
	}
	defer cache.Close()

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	docs := render.NewDocumentRenderer(st)

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	cfgHash, err := siteConfigHash(b.Cfg.Site)
	if err != nil {
		return nil, err
	}
	catHash := catalogHash(st)
	now := time.Now()

	res := &Result{Articles: st.Len(), Warnings: warns}

	routes := (&app.RouteBuilder{}).Build(st)
	for _, rt := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		contentHash := catHash
		if rt.Kind == site.RouteArticle {
			contentHash = st.ContentHash(rt.ArticleID)
		}
		fp := Fingerprint{ContentHash: contentHash, ConfigHash: cfgHash}.Sum()

		if cache.Get(rt.OutPath) == fp && fileExists(filepath.Join(outDir, rt.OutPath)) {
			res.Skipped++
			continue
		}

		out, err := b.renderRoute(ctx, rt, st, docs, tpl, now)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", rt, err)
		}
		if err := writeFile(outDir, rt.OutPath, out); err != nil {
			return nil, err
		}
		if err := cache.Put(rt.OutPath, fp); err != nil {
			return nil, err
		}
		res.Pages++
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	b.Log.Infow("build complete", "pages", res.Pages, "skipped", res.Skipped)
	return res, nil
}

func (b *Builder) renderRoute(
	ctx context.Context,
	rt site.Route,
	st *store.Store,
	docs *render.DocumentRenderer,
	tpl render.Renderer,
	now time.Time,
) ([]byte, error) {
	sc := b.Cfg.Site

	switch rt.Kind {
	case site.RouteIndex:
		return tpl.RenderHome(ctx, render.HomePage{
			Site:      sc,
			Articles:  st.GetAll(),
			SEO:       seo.ForHome(sc),
			PageTitle: sc.Title,
		})

	case site.RouteArticle:
		a, ok := st.GetByID(rt.ArticleID)
		if !ok {
			return nil, fmt.Errorf("article %s not in catalog", rt.ArticleID)
		}
		return tpl.RenderArticle(ctx, render.ArticlePage{
			Site:      sc,
			Article:   a,
			Doc:       docs.Render(a),
			SEO:       seo.ForArticle(a, sc),
			PageTitle: a.Title,
		})

	case site.RouteSearch:
		return tpl.RenderSearch(ctx, render.SearchPage{
			Site:      sc,
			SEO:       seo.ForHome(sc),
			PageTitle: "Search",
		})

	case site.RouteNotFound:
		return tpl.RenderNotFound(ctx, render.NotFoundPage{
			Site: sc,
			Path: "/",
			SEO:  seo.ForNotFound(sc),
		})

	case site.RouteSitemap:
		return seo.SitemapXML(st.GetAll(), sc, now)

	case site.RouteRobots:
		return []byte(seo.RobotsTxt(sc.BaseURL)), nil
	}
	return nil, fmt.Errorf("unknown route kind %q", rt.Kind)
}

// copyStaticAssets prefers the on-disk theme's static dir and falls back to
// the assets embedded with the renderer.
func (b *Builder) copyStaticAssets(outDir string) error {
	diskDir := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "static")
	if fileExists(diskDir) {
		return copyFS(filepath.Join(outDir, "static"), os.DirFS(diskDir))
	}
	return copyFS(filepath.Join(outDir, "static"), render.StaticFS())
}

func copyFS(dstDir string, src fs.FS) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return writeFile(dstDir, path, data)
	})
}

func writeFile(outDir, rel string, data []byte) error {
	full := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func siteConfigHash(sc config.SiteConfig) (string, error) {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// catalogHash covers every entry, in order; pages derived from the whole
// catalog (home, sitemap) rebuild when anything changes.
func catalogHash(st *store.Store) string {
	h := sha256.New()
	for _, a := range st.GetAll() {
		h.Write([]byte(a.ID))
		h.Write([]byte{0})
		h.Write([]byte(st.ContentHash(a.ID)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
