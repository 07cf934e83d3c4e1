package controllers

import (
	"net/http"

	"github.com/spf13/cast"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(store docstore.Store) *ProductController {
	return &ProductController{service: services.NewProductService(store)}
}

// Seed accepts force either as ?force= or as {"force": ...}; the body wins.
func (pc *ProductController) Seed(c *ctx.Context) {
	var body struct {
		Force any `json:"force"`
	}
	if !c.BindJSON(&body) {
		return
	}

	force := c.QueryBool("force", false)
	if body.Force != nil {
		b, err := cast.ToBoolE(body.Force)
		if err != nil {
			c.Error(http.StatusUnprocessableEntity, "force must be a boolean")
			return
		}
		force = b
	}

	res, err := pc.service.Seed(c.Context(), force)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items(products))
}
