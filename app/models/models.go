// Package models holds the records persisted in the document store.
//
// Every record maps to one collection. Optional fields are pointers so an
// omitted value stays distinguishable from a zero value until defaults run.
package models

import (
	"time"

	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// Collection names.
const (
	CollectionUser         = "user"
	CollectionProduct      = "product"
	CollectionBlogPost     = "blogpost"
	CollectionConsultation = "consultation"
	CollectionOrder        = "order"
)

func init() {
	schema.Register(CollectionUser, User{})
	schema.Register(CollectionProduct, Product{})
	schema.Register(CollectionBlogPost, BlogPost{})
	schema.Register(CollectionConsultation, Consultation{})
	schema.Register(CollectionOrder, Order{})
}

// Timestamps are stamped by the repository on create and update.
type Timestamps struct {
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
