// Package local provides the local filesystem output backend.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Config holds local filesystem backend settings.
type Config struct {
	RootPath string
}

// LocalBackend implements storage.Backend using the local filesystem.
type LocalBackend struct {
	rootPath string
}

// New creates a new local filesystem backend rooted at an existing directory.
func New(cfg Config) (*LocalBackend, error) {
	if cfg.RootPath == "" {
		return nil, fmt.Errorf("root path is required")
	}

	info, err := os.Stat(cfg.RootPath)
	if err != nil {
		return nil, fmt.Errorf("stat root path %s: %w", cfg.RootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", cfg.RootPath)
	}

	return &LocalBackend{rootPath: cfg.RootPath}, nil
}

// Root returns the directory keys are resolved against.
func (b *LocalBackend) Root() string {
	return b.rootPath
}

// FullPath resolves a key to a filesystem path. Keys may not escape the root.
func (b *LocalBackend) FullPath(key string) (string, error) {
	key = filepath.ToSlash(key)
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("key %q escapes the pull root", key)
		}
	}
	return filepath.Join(b.rootPath, filepath.FromSlash(strings.TrimPrefix(key, "/"))), nil
}

// MkdirAll creates dir and its parents under the root.
func (b *LocalBackend) MkdirAll(_ context.Context, dir string) error {
	full, err := b.FullPath(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("create folder %s: %w", dir, err)
	}
	return nil
}

// PutObject writes content atomically, creating parent directories.
func (b *LocalBackend) PutObject(_ context.Context, key string, body io.Reader, size int64) error {
	full, err := b.FullPath(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dirs for %s: %w", key, err)
	}

	// Write to temp file then rename so a failed pull never leaves a truncated file.
	tmp, err := os.CreateTemp(dir, ".magnus-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", key, err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", key, err)
	}
	return nil
}

// Type returns "local".
func (b *LocalBackend) Type() string { return "local" }

// Close is a no-op for local backends.
func (b *LocalBackend) Close() error { return nil }
