package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStore keeps documents as plain files under a vault directory, so the
// vault can be opened directly by a notes app.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("vault directory is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Root returns the absolute vault directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) filePath(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// PutObject writes through a temp file in the target directory and renames
// it into place, so readers never see a half-written note.
func (s *LocalStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	_ = ctx
	_ = contentType
	target, err := s.filePath(key)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}

	return int64(len(data)), nil
}

func (s *LocalStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	target, err := s.filePath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// PresignGet returns a file:// URL; local files need no signature.
func (s *LocalStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	_ = ctx
	_ = ttlSeconds
	target, err := s.filePath(key)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(target)}
	return u.String(), nil
}

// DeleteObject removes a file. Deleting a missing file is not an error.
func (s *LocalStore) DeleteObject(ctx context.Context, key string) error {
	_ = ctx
	target, err := s.filePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
