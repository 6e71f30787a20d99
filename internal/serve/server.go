package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pedia/internal/domain/config"
	"pedia/internal/render"
	"pedia/internal/seo"
	"pedia/internal/store"
)

// Server serves the encyclopedia straight from the in-memory catalog. The
// catalog is swapped wholesale on reload; handlers only ever see a complete,
// validated snapshot.
type Server struct {
	cfg config.Config
	log *zap.SugaredLogger
	tpl render.Renderer

	mu   sync.RWMutex
	st   *store.Store
	docs *render.DocumentRenderer

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log *zap.SugaredLogger) (*Server, error) {
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to load templates: %w", err)
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		tpl:      tpl,
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Reload(); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Infow("listening", "addr", addr)
	return srv.ListenAndServe()
}

// Handler builds the route table; split out from ListenAndServe so tests can
// drive the server without a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/article/", s.handleArticle)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	mux.HandleFunc("/robots.txt", s.handleRobots)
	mux.HandleFunc("/api/health", s.handleHealth)

	// dev reload stream
	mux.HandleFunc("/dev/events", s.handleSSE)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(s.staticFS())))

	return mux
}

func (s *Server) staticFS() http.FileSystem {
	diskDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme, "static")
	if st, err := os.Stat(diskDir); err == nil && st.IsDir() {
		return http.Dir(diskDir)
	}
	return http.FS(render.StaticFS())
}

// Reload re-reads the catalog from the data dir and swaps it in. A failed
// reload after startup keeps the previous catalog serving.
func (s *Server) Reload() error {
	dataDir := s.cfg.Build.DataDir
	st, warns, err := store.LoadDir(dataDir)
	if err != nil {
		return fmt.Errorf("load catalog from %s: %w", dataDir, err)
	}
	for _, w := range warns {
		s.log.Warnw("catalog warning", "path", w.Path, "msg", w.Msg)
	}

	docs := render.NewDocumentRenderer(st)
	s.mu.Lock()
	s.st = st
	s.docs = docs
	s.mu.Unlock()

	s.log.Infow("catalog loaded", "articles", st.Len())
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) snapshot() (*store.Store, *render.DocumentRenderer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st, s.docs
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Build.DataDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Infow("watching data dir", "dir", s.cfg.Build.DataDir)

	// One-shot timer: a burst of file events collapses into a single reload,
	// and once it fires it stays quiet until the next event re-arms it.
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warnw("watcher error", "err", err)
		case <-debounce.C:
			if err := s.Reload(); err != nil {
				s.log.Errorw("reload failed, keeping previous catalog", "err", err)
			}
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.handleNotFound(w, r)
		return
	}
	st, _ := s.snapshot()

	page := render.HomePage{
		Site:      s.cfg.Site,
		Articles:  st.GetAll(),
		SEO:       seo.ForHome(s.cfg.Site),
		PageTitle: s.cfg.Site.Title,
	}
	htmlBytes, err := s.tpl.RenderHome(r.Context(), page)
	if err != nil {
		s.log.Errorw("render home", "err", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

// Article page: /article/<id> or /article/<id>/
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/article/")
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		s.handleNotFound(w, r)
		return
	}

	st, docs := s.snapshot()
	a, ok := st.GetByID(id)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	page := render.ArticlePage{
		Site:      s.cfg.Site,
		Article:   a,
		Doc:       docs.Render(a),
		SEO:       seo.ForArticle(a, s.cfg.Site),
		PageTitle: a.Title,
	}
	htmlBytes, err := s.tpl.RenderArticle(r.Context(), page)
	if err != nil {
		s.log.Errorw("render article", "id", id, "err", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	st, _ := s.snapshot()

	page := render.SearchPage{
		Site:      s.cfg.Site,
		Query:     strings.TrimSpace(query),
		Results:   st.Search(query),
		SEO:       seo.ForHome(s.cfg.Site),
		PageTitle: "Search",
	}
	htmlBytes, err := s.tpl.RenderSearch(r.Context(), page)
	if err != nil {
		s.log.Errorw("render search", "err", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	out, err := seo.SitemapXML(st.GetAll(), s.cfg.Site, time.Now())
	if err != nil {
		s.log.Errorw("render sitemap", "err", err)
		http.Error(w, "sitemap error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.RobotsTxt(s.cfg.Site.BaseURL)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"articles": st.Len(),
		"sitemap":  s.cfg.Site.BaseURL + "/sitemap.xml",
		"robots":   s.cfg.Site.BaseURL + "/robots.txt",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
		SEO:  seo.ForNotFound(s.cfg.Site),
	}
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), page)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	writeHTML(w, htmlBytes)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
