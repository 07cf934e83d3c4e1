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

// LocalDisk stores files under a root directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk roots the disk at root, made absolute against the working
// directory.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *LocalDisk) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *LocalDisk) Driver() string { return "local" }

func (d *LocalDisk) Put(_ context.Context, path string, content []byte) error {
	full := d.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, path string) bool {
	_, err := os.Stat(d.abs(path))
	return err == nil
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	err := os.Remove(d.abs(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) Files(_ context.Context, directory string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(d.abs(directory), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			rel, _ := filepath.Rel(d.root, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: files %s: %w", directory, err)
	}
	return out, nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}
