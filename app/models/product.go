package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalogue entry.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Price       *float64           `bson:"price" json:"price" validate:"required,gte=0"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	InStock     *bool              `bson:"in_stock" json:"in_stock"`
	Image       *string            `bson:"image,omitempty" json:"image,omitempty"`
	SKU         *string            `bson:"sku,omitempty" json:"sku,omitempty"`
	StockQty    *int               `bson:"stock_qty" json:"stock_qty" validate:"omitempty,gte=0"`
	Timestamps  `bson:",inline"`
}

const defaultStockQty = 10

func (p *Product) ApplyDefaults() {
	if p.InStock == nil {
		p.InStock = boolPtr(true)
	}
	if p.StockQty == nil {
		p.StockQty = intPtr(defaultStockQty)
	}
}
