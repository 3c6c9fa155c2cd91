// Package uploadstore persists uploaded binary artifacts for the
// image-analysis path and purges them once the retention window lapses.
package uploadstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Artifact is one stored upload. Age is derived from the filename's epoch
// prefix, falling back to the file's mtime.
type Artifact struct {
	Path      string
	CreatedAt time.Time
}

// Store writes artifacts under a single flat directory with
// {epochMillis}-{originalName} filenames.
type Store struct {
	dir string
}

// New creates the upload directory if absent and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save persists the upload. The original name is flattened with
// filepath.Base so a crafted filename cannot escape the directory.
func (s *Store) Save(originalName string, data []byte) (Artifact, error) {
	now := time.Now()
	name := fmt.Sprintf("%d-%s", now.UnixMilli(), filepath.Base(originalName))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write upload %s: %w", name, err)
	}
	return Artifact{Path: path, CreatedAt: now}, nil
}

// Remove deletes a single artifact synchronously. Callers use it to roll
// back a stored upload when extraction fails, instead of waiting for the
// reaper.
func (s *Store) Remove(a Artifact) error {
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload %s: %w", filepath.Base(a.Path), err)
	}
	return nil
}

func artifactTime(dir string, name string) time.Time {
	if i := strings.IndexByte(name, '-'); i > 0 {
		if ms, err := strconv.ParseInt(name[:i], 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
	}
	if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
		return info.ModTime()
	}
	// Unreadable entry: treat as fresh so it is never deleted on bad data.
	return time.Now()
}
