package controllers

import (
	"encoding/json"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

// GraphQLController exposes the listings as read-only GraphQL queries:
//
//	{ products { id title price } blog(slug: "hello") { title content } }
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(store docstore.Store) (*GraphQLController, error) {
	schema, err := gql.NewSchema(rootQuery(
		services.NewProductService(store),
		services.NewBlogService(store),
		services.NewConsultationService(store),
		services.NewCheckoutService(store),
	))
	if err != nil {
		return nil, err
	}
	return &GraphQLController{schema: schema}, nil
}

func (gc *GraphQLController) Schema() graphql.Schema { return gc.schema }

func (gc *GraphQLController) Handle(c *ctx.Context) {
	gql.Handler(gc.schema)(c.W, c.R)
}

// ─── Types ────────────────────────────────────────────────────────────────────

func fields(names map[string]graphql.Output) graphql.Fields {
	out := graphql.Fields{}
	for name, typ := range names {
		out[name] = &graphql.Field{Type: typ}
	}
	return out
}

var (
	productType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: fields(map[string]graphql.Output{
			"id":          graphql.ID,
			"title":       graphql.String,
			"description": graphql.String,
			"price":       graphql.Float,
			"category":    graphql.String,
			"in_stock":    graphql.Boolean,
			"image":       graphql.String,
			"sku":         graphql.String,
			"stock_qty":   graphql.Int,
			"created_at":  graphql.String,
			"updated_at":  graphql.String,
		}),
	})

	blogPostType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BlogPost",
		Fields: fields(map[string]graphql.Output{
			"id":          graphql.ID,
			"title":       graphql.String,
			"slug":        graphql.String,
			"excerpt":     graphql.String,
			"content":     graphql.String,
			"cover_image": graphql.String,
			"author":      graphql.String,
			"created_at":  graphql.String,
			"updated_at":  graphql.String,
		}),
	})

	consultationType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Consultation",
		Fields: fields(map[string]graphql.Output{
			"id":         graphql.ID,
			"name":       graphql.String,
			"email":      graphql.String,
			"phone":      graphql.String,
			"doctor":     graphql.String,
			"date":       graphql.String,
			"time":       graphql.String,
			"notes":      graphql.String,
			"status":     graphql.String,
			"created_at": graphql.String,
			"updated_at": graphql.String,
		}),
	})

	orderItemType = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: fields(map[string]graphql.Output{
			"product_id": graphql.String,
			"title":      graphql.String,
			"price":      graphql.Float,
			"quantity":   graphql.Int,
			"image":      graphql.String,
		}),
	})

	orderType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: fields(map[string]graphql.Output{
			"id":               graphql.ID,
			"items":            graphql.NewList(orderItemType),
			"subtotal":         graphql.Float,
			"tax":              graphql.Float,
			"shipping":         graphql.Float,
			"total":            graphql.Float,
			"currency":         graphql.String,
			"customer_name":    graphql.String,
			"customer_email":   graphql.String,
			"customer_address": graphql.String,
			"payment_status":   graphql.String,
			"payment_provider": graphql.String,
			"created_at":       graphql.String,
			"updated_at":       graphql.String,
		}),
	})
)

// ─── Root query ───────────────────────────────────────────────────────────────

func rootQuery(
	products *services.ProductService,
	blogs *services.BlogService,
	consultations *services.ConsultationService,
	checkout *services.CheckoutService,
) *graphql.Object {
	limitArg := graphql.FieldConfigArgument{
		"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultLimit},
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return asJSON(products.List(p.Context))
				},
			},
			"blogs": &graphql.Field{
				Type: graphql.NewList(blogPostType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return asJSON(blogs.List(p.Context))
				},
			},
			"blog": &graphql.Field{
				Type: blogPostType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					slug, _ := p.Args["slug"].(string)
					post, err := blogs.GetBySlug(p.Context, slug)
					if apperr.Is(err, apperr.NotFound) {
						return nil, nil
					}
					return asJSON(post, err)
				},
			},
			"consultations": &graphql.Field{
				Type: graphql.NewList(consultationType),
				Args: limitArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					limit, _ := p.Args["limit"].(int)
					return asJSON(consultations.List(p.Context, limit))
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: limitArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					limit, _ := p.Args["limit"].(int)
					return asJSON(checkout.ListOrders(p.Context, limit))
				},
			},
		},
	})
}

// asJSON turns records into the same maps the REST API would return, so
// the default resolver finds fields by their JSON names.
func asJSON(v any, err error) (any, error) {
	if err != nil {
		return nil, errors.New(apperr.From(err).Message)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
