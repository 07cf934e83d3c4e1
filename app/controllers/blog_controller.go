package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

type BlogController struct {
	service *services.BlogService
}

func NewBlogController(store docstore.Store) *BlogController {
	return &BlogController{service: services.NewBlogService(store)}
}

func (bc *BlogController) Index(c *ctx.Context) {
	posts, err := bc.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items(posts))
}

func (bc *BlogController) Store(c *ctx.Context) {
	var post models.BlogPost
	if !c.BindJSON(&post) {
		return
	}
	post.ID = primitive.NilObjectID
	post.Timestamps = models.Timestamps{}

	id, err := bc.service.Create(c.Context(), post)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"id": id})
}

func (bc *BlogController) Show(c *ctx.Context) {
	post, err := bc.service.GetBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(post)
}
