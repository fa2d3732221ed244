package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key under a directory. Used for both the
// article content cache and the enrichment result cache.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the cached value and whether it exists.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Set writes the value for a key. Keys are content-addressed, so rewriting an
// existing entry writes identical bytes and is harmless.
func (s *FileStore) Set(key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Has reports whether a key exists.
func (s *FileStore) Has(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

// Digest returns the hex digest used as a cache key for arbitrary input.
func Digest(raw string) string {
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ShortDigest returns a short content fingerprint for cache key composition.
func ShortDigest(raw string) string {
	return Digest(raw)[:8]
}
