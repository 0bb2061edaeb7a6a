package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under baseDir; they are served by the router at urlBase.
type LocalStore struct {
	baseDir string
	urlBase string
}

func NewLocalStore(baseDir, urlBase string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if urlBase == "" {
		urlBase = "/media"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{baseDir: abs, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

func (s *LocalStore) BaseDir() string { return s.baseDir }
func (s *LocalStore) URLBase() string { return s.urlBase }

func (s *LocalStore) Save(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	absPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.urlBase + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, ok := strings.CutPrefix(url, s.urlBase+"/")
	if !ok {
		return nil
	}
	absPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// resolve maps a key to a path inside baseDir, rejecting traversal.
func (s *LocalStore) resolve(key string) (string, error) {
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if absPath != s.baseDir && !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("image key %q escapes media dir", key)
	}
	return absPath, nil
}
