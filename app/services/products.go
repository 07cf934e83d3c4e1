package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const (
	sampleProductCount = 10
	sampleBasePrice    = 499
	samplePriceStep    = 50
	sampleStockQty     = 20
)

// SeedResult reports a seeding run. Message is set only when nothing was
// inserted because the catalogue already had products.
type SeedResult struct {
	Inserted int    `json:"inserted"`
	Message  string `json:"message,omitempty"`
}

type ProductService struct {
	products *repositories.Repository[models.Product]
}

func NewProductService(store docstore.Store) *ProductService {
	return &ProductService{
		products: repositories.New[models.Product](store, models.CollectionProduct),
	}
}

// SampleProducts is the fixed demo catalogue: Product 1..10 priced
// 499, 549, ... 949.
func SampleProducts() []models.Product {
	out := make([]models.Product, 0, sampleProductCount)
	for i := 0; i < sampleProductCount; i++ {
		price := float64(sampleBasePrice + samplePriceStep*i)
		inStock := true
		stock := sampleStockQty
		desc := "A great product you will love."
		image := fmt.Sprintf("https://picsum.photos/seed/p%d/600/400", i)
		sku := fmt.Sprintf("SKU%03d", i+1)

		out = append(out, models.Product{
			Title:       fmt.Sprintf("Product %d", i+1),
			Description: &desc,
			Price:       &price,
			Category:    "general",
			InStock:     &inStock,
			Image:       &image,
			SKU:         &sku,
			StockQty:    &stock,
		})
	}
	return out
}

// Seed inserts the sample catalogue. Without force it is a no-op when any
// product exists; with force every existing product is deleted first.
func (s *ProductService) Seed(ctx context.Context, force bool) (SeedResult, error) {
	existing, err := s.products.Count(ctx, nil)
	if err != nil {
		return SeedResult{}, err
	}
	if existing > 0 && !force {
		return SeedResult{Inserted: 0, Message: "Products already exist"}, nil
	}

	if force {
		removed, err := s.products.DeleteAll(ctx)
		if err != nil {
			return SeedResult{}, err
		}
		logger.WithCtx(ctx).Info("products cleared for reseed", "removed", removed)
	}

	inserted := 0
	for _, p := range SampleProducts() {
		p := p
		if err := validate(&p); err != nil {
			return SeedResult{Inserted: inserted}, err
		}
		if _, err := s.products.Create(ctx, &p); err != nil {
			return SeedResult{Inserted: inserted}, err
		}
		inserted++
	}

	metrics.RecordProductsSeeded(inserted)
	return SeedResult{Inserted: inserted}, nil
}

// List returns every product in insertion order.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx, 0)
}
