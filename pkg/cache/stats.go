package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NamespaceStats summarizes one namespace directory.
type NamespaceStats struct {
	Dir     string // Directory name (hash or "shared")
	Entries int    // Number of cached images
	Bytes   int64  // Total size on disk
}

// Stats walks the store and reports per-namespace usage, sorted by directory
// name. A missing root yields no stats.
func (s *Store) Stats() ([]NamespaceStats, error) {
	dirs, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []NamespaceStats
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		ns := NamespaceStats{Dir: d.Name()}
		files, err := os.ReadDir(filepath.Join(s.root, d.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), Extension) {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			ns.Entries++
			ns.Bytes += info.Size()
		}
		out = append(out, ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out, nil
}

// Clear removes every cached entry and namespace directory, returning the
// number of files removed. The root itself is kept.
func (s *Store) Clear() (int, error) {
	dirs, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range dirs {
		path := filepath.Join(s.root, d.Name())
		if !d.IsDir() {
			if os.Remove(path) == nil {
				count++
			}
			continue
		}
		files, _ := os.ReadDir(path)
		for _, f := range files {
			if !f.IsDir() {
				count++
			}
		}
		if err := os.RemoveAll(path); err != nil {
			return count, err
		}
	}
	return count, nil
}
