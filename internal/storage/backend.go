// Package storage defines where pulled content is materialized. Keys are
// slash-separated paths relative to the pull root.
package storage

import (
	"context"
	"io"
)

// Backend is the interface for pull output backends.
type Backend interface {
	// MkdirAll ensures the directory dir and its parents exist.
	MkdirAll(ctx context.Context, dir string) error

	// PutObject writes content to the given key, replacing any existing object.
	PutObject(ctx context.Context, key string, body io.Reader, size int64) error

	// Type returns the backend type identifier ("local", "s3").
	Type() string

	// Close releases any resources held by the backend.
	Close() error
}
