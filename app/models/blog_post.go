package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BlogPost is addressed publicly by its slug.
type BlogPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title" validate:"required"`
	Slug       string             `bson:"slug" json:"slug" validate:"required"`
	Excerpt    *string            `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content    string             `bson:"content" json:"content" validate:"required"`
	CoverImage *string            `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Author     *string            `bson:"author,omitempty" json:"author,omitempty"`
	Timestamps `bson:",inline"`
}
