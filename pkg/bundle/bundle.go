// Package bundle packages generated collages for download.
//
// A bundle is a ZIP archive holding the encoded collage and a JSON snapshot
// of the submission that produced it. Bundles are written to a directory as
// <token>.zip, where token is a random UUID handed back to the client.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
	"github.com/matzehuels/tierlist/pkg/submission"
)

const (
	// ImageBase is the archive entry name of the collage, without extension.
	ImageBase = "litrpg_tier_list"

	// SnapshotName is the archive entry name of the submission snapshot.
	SnapshotName = "submission.json"

	// DownloadName is the file name offered to clients.
	DownloadName = "litrpg_rank_reward.zip"

	// ContentType is the MIME type of a bundle.
	ContentType = "application/zip"
)

// Store writes and opens bundles in one directory.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a store rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the bundle directory.
func (s *Store) Dir() string { return s.dir }

// Write stores a bundle with the encoded image and snapshot and returns its
// download token.
func (s *Store) Write(image []byte, format sink.Format, snap submission.Snapshot) (string, error) {
	meta, err := snap.MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	token := uuid.NewString()
	tmp, err := os.CreateTemp(s.dir, ".tmp-*.zip")
	if err != nil {
		return "", fmt.Errorf("create bundle: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeArchive(tmp, []entry{
		{ImageBase + format.Extension(), image},
		{SnapshotName, meta},
	}); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(token)); err != nil {
		return "", fmt.Errorf("store bundle: %w", err)
	}
	return token, nil
}

// Open returns the bundle for token. Malformed tokens are rejected before
// touching the filesystem.
func (s *Store) Open(token string) (*os.File, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidToken, "invalid download token")
	}
	f, err := os.Open(s.path(id.String()))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "bundle not found")
	}
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	return f, nil
}

func (s *Store) path(token string) string {
	return filepath.Join(s.dir, token+".zip")
}

type entry struct {
	name string
	data []byte
}

func writeArchive(w io.Writer, entries []entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("add %s: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}
