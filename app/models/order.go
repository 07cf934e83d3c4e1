package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	DefaultCurrency = "INR"
	MockProvider    = "mock"
)

// OrderItem is a cart line copied into the order. ProductID is not checked
// against the catalogue.
type OrderItem struct {
	ProductID string   `bson:"product_id" json:"product_id" validate:"required"`
	Title     string   `bson:"title" json:"title" validate:"required"`
	Price     *float64 `bson:"price" json:"price" validate:"required"`
	Quantity  *int     `bson:"quantity" json:"quantity" validate:"required"`
	Image     *string  `bson:"image,omitempty" json:"image,omitempty"`
}

// Order totals are computed once, at creation.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Items           []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Total           float64            `bson:"total" json:"total"`
	Currency        string             `bson:"currency" json:"currency"`
	CustomerName    string             `bson:"customer_name" json:"customer_name" validate:"required"`
	CustomerEmail   string             `bson:"customer_email" json:"customer_email" validate:"required"`
	CustomerAddress string             `bson:"customer_address" json:"customer_address" validate:"required"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status" validate:"oneof=pending paid failed"`
	PaymentProvider string             `bson:"payment_provider" json:"payment_provider"`
	Timestamps      `bson:",inline"`
}

func (o *Order) ApplyDefaults() {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.PaymentProvider == "" {
		o.PaymentProvider = MockProvider
	}
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []OrderItem `json:"items"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerAddress string      `json:"customer_address"`
}

// ConfirmRequest is the JSON body form of a payment confirmation.
type ConfirmRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
