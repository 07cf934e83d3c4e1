package migrations

import "github.com/shashiranjanraj/storefront/app/models"

func init() {
	Register("20250101000000_blogpost_slug_unique", Indexes{
		{Collection: models.CollectionBlogPost, Field: "slug", Unique: true},
	})
	Register("20250101000001_order_payment_status", Indexes{
		{Collection: models.CollectionOrder, Field: "payment_status"},
	})
	Register("20250101000002_consultation_doctor", Indexes{
		{Collection: models.CollectionConsultation, Field: "doctor"},
		{Collection: models.CollectionConsultation, Field: "date"},
	})
	Register("20250101000003_migrations_name_unique", Indexes{
		{Collection: Collection, Field: "name", Unique: true},
	})
}
