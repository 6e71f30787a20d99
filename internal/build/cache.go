package build

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bPages = []byte("pages") // outPath -> render fingerprint

// Cache remembers the fingerprint each output file was last rendered from,
// so unchanged pages are skipped on the next build. It holds derived state
// only; deleting the cache file merely forces a full rebuild.
type Cache struct {
	db *bolt.DB
}

func OpenCache(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("build: missing cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bPages)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) Get(outPath string) string {
	var fp string
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPages)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(outPath)); v != nil {
			fp = string(v)
		}
		return nil
	})
	return fp
}

func (c *Cache) Put(outPath, fp string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bPages).Put([]byte(outPath), []byte(fp))
	})
}

// rendererVersion participates in every fingerprint; changing templates or
// block rendering in a way that must invalidate old output means bumping it.
const rendererVersion = "1"

// Fingerprint ties one output file to everything that shaped it.
type Fingerprint struct {
	ContentHash string
	ConfigHash  string
}

func (f Fingerprint) Sum() string {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(rendererVersion))
	return hex.EncodeToString(h.Sum(nil))
}
