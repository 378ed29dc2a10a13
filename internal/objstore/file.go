package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// fileStore keeps artifacts on local disk. SignedURL returns a file:// URL,
// which is enough for single-node deployments and tests.
type fileStore struct {
	base string
}

func openFile(c Config) (Store, error) {
	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &fileStore{base: base}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.base, filepath.FromSlash(sanitizeKey(key)))
}

func (s *fileStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func (s *fileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

func (s *fileStore) SignedURL(_ context.Context, key string, method string, _ time.Duration) (string, error) {
	if method != "" && method != "GET" {
		return "", fmt.Errorf("file driver cannot sign %s", method)
	}
	return "file://" + filepath.ToSlash(s.path(key)), nil
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
