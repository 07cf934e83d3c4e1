// Package routes mounts the storefront endpoints on a router.
package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RegisterAPI mounts every storefront route backed by db.
func RegisterAPI(r *router.Router, db docstore.Database) error {
	home := controllers.NewHomeController(db)
	products := controllers.NewProductController(db)
	blogs := controllers.NewBlogController(db)
	consultations := controllers.NewConsultationController(db)
	checkout := controllers.NewCheckoutController(db)

	gql, err := controllers.NewGraphQLController(db)
	if err != nil {
		return err
	}

	r.Get("/", "home", ctx.Wrap(home.Index))
	r.Get("/test", "home.test", ctx.Wrap(home.Test))
	r.Get("/schema", "home.schema", ctx.Wrap(home.Schema))

	r.Get("/graphql", "graphql.query", ctx.Wrap(gql.Handle))
	r.Post("/graphql", "graphql", ctx.Wrap(gql.Handle))

	api := r.Group("/api")

	api.Post("/products/seed", "products.seed", ctx.Wrap(products.Seed))
	api.Get("/products", "products.index", ctx.Wrap(products.Index))

	api.Get("/blogs", "blogs.index", ctx.Wrap(blogs.Index))
	api.Post("/blogs", "blogs.store", ctx.Wrap(blogs.Store))
	api.Get("/blogs/{slug}", "blogs.show", ctx.Wrap(blogs.Show))

	api.Post("/consultations", "consultations.store", ctx.Wrap(consultations.Store))
	api.Get("/consultations", "consultations.index", ctx.Wrap(consultations.Index))

	api.Post("/checkout/create-order", "checkout.create", ctx.Wrap(checkout.CreateOrder))
	api.Get("/checkout/confirm", "checkout.confirm", ctx.Wrap(checkout.Confirm))
	api.Post("/checkout/confirm", "checkout.confirm.post", ctx.Wrap(checkout.Confirm))
	api.Get("/orders", "orders.index", ctx.Wrap(checkout.Orders))

	return nil
}
