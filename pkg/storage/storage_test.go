package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/storage"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir(), "http://localhost:8000/storage/")

	require.NoError(t, disk.Put(ctx, "exports/a/product.json", []byte(`[]`)))
	assert.True(t, disk.Exists(ctx, "exports/a/product.json"))

	data, err := disk.Get(ctx, "exports/a/product.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	files, err := disk.Files(ctx, "exports")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/a/product.json"}, files)

	assert.Equal(t, "http://localhost:8000/storage/exports/a/product.json", disk.URL("exports/a/product.json"))

	require.NoError(t, disk.Delete(ctx, "exports/a/product.json"))
	require.NoError(t, disk.Delete(ctx, "exports/a/product.json"))
	assert.False(t, disk.Exists(ctx, "exports/a/product.json"))

	_, err = disk.Get(ctx, "exports/a/product.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalDiskFilesOfMissingDirectory(t *testing.T) {
	files, err := storage.NewLocalDisk(t.TempDir(), "").Files(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestManagerResolvesDisks(t *testing.T) {
	ctx := context.Background()
	m := storage.NewManager(storage.Config{LocalRoot: t.TempDir()})

	d, err := m.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "local", d.Driver())

	_, err = m.Use(ctx, "ftp")
	assert.Error(t, err)

	_, err = m.Use(ctx, "s3")
	assert.ErrorContains(t, err, "S3_BUCKET")

	custom := storage.NewLocalDisk(t.TempDir(), "")
	m.Register("backup", custom)
	got, err := m.Use(ctx, "backup")
	require.NoError(t, err)
	assert.Same(t, custom, got)
	assert.Equal(t, []string{"backup", "local"}, m.Names())
}
