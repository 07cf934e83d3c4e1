package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/storefront/config"
)

// Config selects the default disk and configures each driver.
type Config struct {
	Default   string
	LocalRoot string
	LocalURL  string
	S3        S3Config
}

// ConfigFromEnv reads STORAGE_* and S3_* keys.
func ConfigFromEnv() Config {
	return Config{
		Default:   config.StorageDefault(),
		LocalRoot: config.StorageLocalRoot(),
		LocalURL:  config.StorageURL(),
		S3: S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		},
	}
}

// Manager resolves disks by name. The S3 client is built on first use.
type Manager struct {
	cfg Config

	mu    sync.Mutex
	disks map[string]Disk
}

func NewManager(cfg Config) *Manager {
	if cfg.Default == "" {
		cfg.Default = "local"
	}
	return &Manager{
		cfg:   cfg,
		disks: map[string]Disk{"local": NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)},
	}
}

// Register plugs in a custom disk, replacing any disk of that name.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Use returns the named disk.
func (m *Manager) Use(ctx context.Context, name string) (Disk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.disks[name]; ok {
		return d, nil
	}
	if name != "s3" {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}

	d, err := NewS3Disk(ctx, m.cfg.S3)
	if err != nil {
		return nil, err
	}
	m.disks[name] = d
	return d, nil
}

// Default returns the disk named by STORAGE_DISK.
func (m *Manager) Default(ctx context.Context) (Disk, error) {
	return m.Use(ctx, m.cfg.Default)
}

// Names lists disks that are ready without further setup.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.disks))
	for n := range m.disks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
