package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as files in one directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Backend() string { return "local" }

// Dir is the directory blobs are written to.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, name, _ string, data []byte) error {
	if !validName(name) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(_ context.Context, name string) (*Blob, error) {
	if !validName(name) {
		return nil, ErrBlobNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Blob{
		Body:        f,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
	}, nil
}
