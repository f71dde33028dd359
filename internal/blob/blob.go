// Package blob stores uploaded files on the local filesystem.
//
// A Store manages one root directory containing a subdirectory per bucket.
// Filenames are opaque tokens chosen by the caller; the store never lists or
// interprets them.
package blob

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Buckets managed by the store.
const (
	Profile     = "profile"
	Attachments = "attachments"
)

// ErrNotExist is returned by Delete when the named file is absent.
// It matches fs.ErrNotExist under errors.Is.
var ErrNotExist = fs.ErrNotExist

// A Store is a directory of uploaded files, one subdirectory per bucket.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir. Call Init before first use.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Init creates the root directory and all bucket subdirectories.
// It is idempotent and tolerates concurrent callers racing to create
// the same directories.
func (s *Store) Init() error {
	for _, bucket := range []string{Profile, Attachments} {
		if err := os.MkdirAll(filepath.Join(s.root, bucket), 0o755); err != nil {
			return fmt.Errorf("blob: init %s: %w", bucket, err)
		}
	}
	return nil
}

// Write stores buf under filename in the given bucket. The file is written
// to a temporary name and renamed into place, so a concurrent reader never
// observes a partially written file.
func (s *Store) Write(bucket, filename string, buf []byte) error {
	dir := filepath.Join(s.root, bucket)
	tmp, err := os.CreateTemp(dir, filename+".tmp*")
	if err != nil {
		return fmt.Errorf("blob: write %s/%s: %w", bucket, filename, err)
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("blob: write %s/%s: %w", bucket, filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("blob: write %s/%s: %w", bucket, filename, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, filename)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("blob: write %s/%s: %w", bucket, filename, err)
	}
	return nil
}

// Delete removes the named file. If the file is absent Delete returns an
// error matching ErrNotExist; the caller decides whether that matters.
func (s *Store) Delete(bucket, filename string) error {
	err := os.Remove(filepath.Join(s.root, bucket, filename))
	if err != nil {
		return fmt.Errorf("blob: delete %s/%s: %w", bucket, filename, err)
	}
	return nil
}

// Exists reports whether the named file is present.
func (s *Store) Exists(bucket, filename string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, bucket, filename))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("blob: stat %s/%s: %w", bucket, filename, err)
	}
}

// Path returns the filesystem path of the named file.
func (s *Store) Path(bucket, filename string) string {
	return filepath.Join(s.root, bucket, filename)
}
