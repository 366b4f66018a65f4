package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tierlist/pkg/observability"
)

// Extension is the fixed file extension of cached images. The bytes are
// stored exactly as downloaded, whatever their real format.
const Extension = ".jpg"

// Store is a content-addressed on-disk image cache partitioned by namespace.
//
// Layout:
//
//	<root>/<namespaceDir>/<urlKey>.jpg
//
// Entries are written once per URL and namespace and never expire. Writes
// replace the whole file through a rename, so concurrent writers of the same
// URL leave one complete copy behind. No locking is needed because the value
// for a key is the same download.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. The root directory is created if
// it doesn't exist; namespace directories are created on first write.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache root cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// PathFor returns the cache path of url under namespace. It is deterministic
// and touches nothing on disk.
func (s *Store) PathFor(url, namespace string) string {
	return filepath.Join(s.root, NamespaceDir(namespace), URLKey(url)+Extension)
}

// Exists reports whether a regular file exists at path.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the raw bytes at path, or ErrCacheMiss if there are none.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		observability.Cache().OnCacheMiss(ctx, "cover")
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	observability.Cache().OnCacheHit(ctx, "cover")
	return data, nil
}

// Write stores data at path, creating the namespace directory if needed and
// replacing any previous entry.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if !s.contains(path) {
		return ErrOutsideRoot
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create namespace dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit cache entry: %w", err)
	}

	observability.Cache().OnCacheSet(ctx, "cover", len(data))
	return nil
}

func (s *Store) contains(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
