package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

type ConsultationController struct {
	service *services.ConsultationService
}

func NewConsultationController(store docstore.Store) *ConsultationController {
	return &ConsultationController{service: services.NewConsultationService(store)}
}

func (cc *ConsultationController) Store(c *ctx.Context) {
	var in models.Consultation
	if !c.BindJSON(&in) {
		return
	}
	in.ID = primitive.NilObjectID
	in.Timestamps = models.Timestamps{}

	booking, err := cc.service.Book(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(booking)
}

func (cc *ConsultationController) Index(c *ctx.Context) {
	list, err := cc.service.List(c.Context(), c.QueryInt("limit", defaultLimit))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items(list))
}
