package store

import (
	"strings"

	"pedia/internal/domain/content"
	domainerr "pedia/internal/domain/errors"
)

// Store is the authoritative article catalog. It is populated once at load
// time and read-only afterwards, so concurrent readers need no locking.
// Callers must treat everything it hands out as borrowed views.
type Store struct {
	articles []content.Article
	byID     map[string]int
	hashes   map[string]string
}

// New builds a store over an already-parsed catalog, preserving slice order.
// Duplicate ids violate the catalog invariant and fail construction.
func New(articles []content.Article) (*Store, error) {
	s := &Store{
		articles: articles,
		byID:     make(map[string]int, len(articles)),
		hashes:   make(map[string]string, len(articles)),
	}
	var ve domainerr.ValidationError
	for i, a := range articles {
		if _, ok := s.byID[a.ID]; ok {
			ve.Add("id", "duplicate article id: "+a.ID)
			continue
		}
		s.byID[a.ID] = i
	}
	if ve.HasAny() {
		return nil, ve
	}
	return s, nil
}

func (s *Store) Len() int {
	return len(s.articles)
}

// GetAll returns the full catalog in load order.
func (s *Store) GetAll() []content.Article {
	return s.articles
}

// GetByID is an exact-match lookup. A miss is a normal outcome, reported
// through the second return value, never through an error.
func (s *Store) GetByID(id string) (content.Article, bool) {
	i, ok := s.byID[id]
	if !ok {
		return content.Article{}, false
	}
	return s.articles[i], true
}

// Search does a case-insensitive substring scan over title, summary and
// paragraph block text. An empty (or whitespace-only) query matches nothing.
// Results keep catalog order; there is no relevance ranking and no inverted
// index, the catalog is small enough that a linear scan per query is the
// intended design.
func (s *Store) Search(query string) []content.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []content.Article
	for _, a := range s.articles {
		if articleMatches(a, q) {
			out = append(out, a)
		}
	}
	return out
}

func articleMatches(a content.Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Summary), q) {
		return true
	}
	for _, b := range a.Content {
		if b.Type != content.BlockParagraph {
			continue
		}
		if strings.Contains(strings.ToLower(b.Text), q) {
			return true
		}
	}
	return false
}

// Related resolves an article's relatedArticles ids in listed order. Ids that
// don't resolve are dropped; editorial links are expected to drift.
func (s *Store) Related(id string) []content.Article {
	a, ok := s.GetByID(id)
	if !ok {
		return nil
	}
	var out []content.Article
	for _, rid := range a.RelatedArticles {
		if r, ok := s.GetByID(rid); ok {
			out = append(out, r)
		}
	}
	return out
}

// ContentHash returns the fingerprint of the raw catalog entry, used by the
// static build to skip unchanged pages. Empty for ids not in the catalog or
// stores built directly from memory.
func (s *Store) ContentHash(id string) string {
	return s.hashes[id]
}
