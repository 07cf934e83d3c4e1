package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

var (
	taxRate               = decimal.RequireFromString("0.18")
	flatShipping          = decimal.NewFromInt(49)
	freeShippingThreshold = decimal.NewFromInt(999)
)

// Quote is the price breakdown of a cart.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// QuoteItems prices a cart: 18% tax rounded to two places, flat 49
// shipping below a 999 subtotal, total rounded to two places.
func QuoteItems(items []models.OrderItem) Quote {
	subtotal := decimal.Zero
	for _, it := range items {
		price, qty := 0.0, 0
		if it.Price != nil {
			price = *it.Price
		}
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))))
	}

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := decimal.Zero
	if subtotal.LessThan(freeShippingThreshold) {
		shipping = flatShipping
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping).Round(2),
	}
}

// OrderReceipt is returned by CreateOrder.
type OrderReceipt struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	PaymentURL string  `json:"payment_url"`
}

// Confirmation is returned by ConfirmOrder.
type Confirmation struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

type CheckoutService struct {
	orders *repositories.Repository[models.Order]
}

func NewCheckoutService(store docstore.Store) *CheckoutService {
	return &CheckoutService{
		orders: repositories.New[models.Order](store, models.CollectionOrder),
	}
}

// CreateOrder prices the cart and stores a pending order. An empty cart is
// rejected before anything else is looked at.
func (s *CheckoutService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (OrderReceipt, error) {
	if len(req.Items) == 0 {
		return OrderReceipt{}, apperr.New(apperr.BadRequest, "Cart is empty")
	}

	q := QuoteItems(req.Items)
	order := models.Order{
		Items:           req.Items,
		Subtotal:        q.Subtotal.InexactFloat64(),
		Tax:             q.Tax.InexactFloat64(),
		Shipping:        q.Shipping.InexactFloat64(),
		Total:           q.Total.InexactFloat64(),
		Currency:        models.DefaultCurrency,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		PaymentStatus:   models.PaymentPending,
		PaymentProvider: models.MockProvider,
	}
	if err := validate(&order); err != nil {
		return OrderReceipt{}, err
	}

	id, err := s.orders.Create(ctx, &order)
	if err != nil {
		return OrderReceipt{}, err
	}

	metrics.RecordOrderCreated()
	logger.WithCtx(ctx).Info("order created", "order_id", id, "total", order.Total)

	return OrderReceipt{
		OrderID:    id,
		Amount:     order.Total,
		Currency:   order.Currency,
		PaymentURL: fmt.Sprintf("/api/checkout/confirm?order_id=%s&status=paid", id),
	}, nil
}

// ConfirmOrder records the mock gateway's verdict. Only the exact status
// "paid" marks the order paid; anything else marks it failed.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, orderID, status string) (Confirmation, error) {
	if orderID == "" {
		return Confirmation{}, apperr.New(apperr.BadRequest, "order_id required")
	}

	_, found, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return Confirmation{}, err
	}
	if !found {
		return Confirmation{}, apperr.New(apperr.NotFound, "Order not found")
	}

	next := models.PaymentFailed
	if status == models.PaymentPaid {
		next = models.PaymentPaid
	}

	if _, err := s.orders.UpdateByID(ctx, orderID, docstore.Document{"payment_status": next}); err != nil {
		return Confirmation{}, err
	}

	metrics.RecordPaymentConfirmation(next)
	logger.WithCtx(ctx).Info("payment confirmed", "order_id", orderID, "payment_status", next)

	return Confirmation{OrderID: orderID, PaymentStatus: next}, nil
}

// ListOrders returns up to limit orders; limit <= 0 means 20.
func (s *CheckoutService) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.orders.All(ctx, listLimit(limit))
}
