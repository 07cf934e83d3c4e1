package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

func price(f float64) *float64 { return &f }
func qty(n int) *int           { return &n }

func TestCreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := repositories.New[models.Product](docstore.NewMemory("test"), models.CollectionProduct)

	p := &models.Product{Title: "Mug", Price: price(12.5), Category: "kitchen"}
	p.ApplyDefaults()

	id, err := repo.Create(ctx, p)
	require.NoError(t, err)

	got, found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got.ID.Hex())
	assert.Equal(t, "Mug", got.Title)
	assert.Equal(t, 12.5, *got.Price)
	assert.True(t, *got.InStock)
	assert.Equal(t, 10, *got.StockQty)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFindByIDMalformedIsNotFound(t *testing.T) {
	repo := repositories.New[models.Order](docstore.NewMemory("test"), models.CollectionOrder)

	_, found, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNestedItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.New[models.Order](docstore.NewMemory("test"), models.CollectionOrder)

	order := &models.Order{
		Items: []models.OrderItem{
			{ProductID: "p1", Title: "Mug", Price: price(500), Quantity: qty(2)},
		},
		Total: 1180,
	}
	order.ApplyDefaults()

	id, err := repo.Create(ctx, order)
	require.NoError(t, err)

	got, found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, *got.Items[0].Quantity)
	assert.Equal(t, "INR", got.Currency)

	ok, err := repo.UpdateByID(ctx, id, docstore.Document{"payment_status": models.PaymentPaid})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
}

func TestAllDeleteAllAndCount(t *testing.T) {
	ctx := context.Background()
	repo := repositories.New[models.BlogPost](docstore.NewMemory("test"), models.CollectionBlogPost)

	for _, slug := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, &models.BlogPost{Title: slug, Slug: slug, Content: "x"})
		require.NoError(t, err)
	}

	posts, err := repo.All(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	exists, err := repo.Exists(ctx, docstore.Filter{"slug": "b"})
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
