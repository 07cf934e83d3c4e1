package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

type CheckoutController struct {
	service *services.CheckoutService
}

func NewCheckoutController(store docstore.Store) *CheckoutController {
	return &CheckoutController{service: services.NewCheckoutService(store)}
}

func (cc *CheckoutController) CreateOrder(c *ctx.Context) {
	var req models.CreateOrderRequest
	if !c.BindJSON(&req) {
		return
	}

	receipt, err := cc.service.CreateOrder(c.Context(), req)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(receipt)
}

// Confirm serves the mock gateway redirect (GET) and its POST form. Query
// values take precedence; a POST may carry the rest as a JSON body.
func (cc *CheckoutController) Confirm(c *ctx.Context) {
	orderID, status := c.Query("order_id"), c.Query("status")

	if c.Method() == http.MethodPost && (orderID == "" || status == "") {
		var body models.ConfirmRequest
		if !c.BindJSON(&body) {
			return
		}
		if orderID == "" {
			orderID = body.OrderID
		}
		if status == "" {
			status = body.Status
		}
	}

	res, err := cc.service.ConfirmOrder(c.Context(), orderID, status)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

func (cc *CheckoutController) Orders(c *ctx.Context) {
	orders, err := cc.service.ListOrders(c.Context(), c.QueryInt("limit", defaultLimit))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items(orders))
}
