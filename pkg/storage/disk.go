// Package storage writes export snapshots to a named disk.
//
// Two drivers exist:
//   - "local": a directory on the local filesystem (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Usage:
//
//	m := storage.NewManager(storage.ConfigFromEnv())
//	disk, err := m.Default(ctx)
//	err = disk.Put(ctx, "exports/2025-01-10/product.json", data)
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when path does not exist.
var ErrNotFound = errors.New("storage: file not found")

// Disk is implemented by every driver. Paths use forward slashes.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists every file under directory, recursively.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL is the public address of path.
	URL(path string) string

	Driver() string
}
