package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pedia/internal/domain/content"
	domainerr "pedia/internal/domain/errors"
)

var validate = newValidator()

// newValidator reports fields under their JSON names, so a load error names
// the key exactly as it appears in the catalog file ("lastModified", not
// "LastModified").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Warning struct {
	Path string
	Msg  string
}

type entry struct {
	article content.Article
	hash    string
	err     error
}

// LoadDir reads every *.json file under dir (recursively, sorted by path) as
// one catalog entry. Any entry missing a required field, or any duplicated
// id, fails the whole load: later code assumes required fields exist, so a
// broken catalog must never make it past startup. Unresolvable
// relatedArticles ids are only warnings.
func LoadDir(dir string) (*Store, []Warning, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]entry, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entries[i] = parseFile(files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var loadErrs []error
	articles := make([]content.Article, 0, len(entries))
	hashes := make(map[string]string, len(entries))
	seen := make(map[string]string, len(entries))

	for i, e := range entries {
		if e.err != nil {
			loadErrs = append(loadErrs, domainerr.CatalogError{Path: files[i], Err: e.err})
			continue
		}
		if prev, ok := seen[e.article.ID]; ok {
			loadErrs = append(loadErrs, domainerr.CatalogError{
				Path: files[i],
				Err:  errors.New("duplicate article id " + e.article.ID + " (already defined in " + prev + ")"),
			})
			continue
		}
		seen[e.article.ID] = files[i]
		articles = append(articles, e.article)
		hashes[e.article.ID] = e.hash
	}
	if len(loadErrs) > 0 {
		return nil, nil, errors.Join(loadErrs...)
	}

	st, err := New(articles)
	if err != nil {
		return nil, nil, err
	}
	st.hashes = hashes

	var warns []Warning
	for i, a := range articles {
		for _, rid := range a.RelatedArticles {
			if _, ok := st.byID[rid]; !ok {
				warns = append(warns, Warning{
					Path: files[i],
					Msg:  "related article not found: " + rid,
				})
			}
		}
	}
	return st, warns, nil
}

func parseFile(path string) entry {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entry{err: err}
	}

	var a content.Article
	if err := json.Unmarshal(raw, &a); err != nil {
		return entry{err: err}
	}
	a.Normalize()

	if err := validate.Struct(a); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) {
			var ve domainerr.ValidationError
			for _, fe := range ferrs {
				ve.Add(fe.Field(), "is required")
			}
			return entry{err: ve}
		}
		return entry{err: err}
	}

	sum := sha256.Sum256(raw)
	return entry{article: a, hash: hex.EncodeToString(sum[:])}
}

func discover(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
