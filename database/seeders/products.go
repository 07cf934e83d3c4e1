package seeders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts loads the sample catalogue. Existing products are kept
// unless opts.Force is set.
func SeedProducts(ctx context.Context, store docstore.Store, opts Options) (string, error) {
	res, err := services.NewProductService(store).Seed(ctx, opts.Force)
	if err != nil {
		return "", err
	}
	if res.Message != "" {
		return res.Message, nil
	}
	return fmt.Sprintf("%d inserted", res.Inserted), nil
}
