package seeders_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

func TestRunAllSeedsProducts(t *testing.T) {
	ctx := context.Background()
	db := docstore.NewMemory("test")
	var out bytes.Buffer

	require.NoError(t, seeders.RunAll(ctx, db, seeders.Options{}, &out))
	assert.Contains(t, out.String(), "Running seeder: products")
	assert.Contains(t, out.String(), "10 inserted")

	n, err := db.Count(ctx, "product", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	out.Reset()
	require.NoError(t, seeders.RunAll(ctx, db, seeders.Options{}, &out))
	assert.Contains(t, out.String(), "Products already exist")

	out.Reset()
	require.NoError(t, seeders.RunAll(ctx, db, seeders.Options{Force: true}, &out))
	assert.Contains(t, out.String(), "10 inserted")

	n, err = db.Count(ctx, "product", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestRunAllStopsOnError(t *testing.T) {
	var out bytes.Buffer
	err := seeders.RunAll(context.Background(), docstore.NewOffline("test", errors.New("refused")), seeders.Options{}, &out)
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
	assert.Contains(t, out.String(), "FAILED")
}
