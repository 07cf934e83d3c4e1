package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is schema-only; no endpoint reads or writes it.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required"`
	Email      string             `bson:"email" json:"email" validate:"required"`
	Address    *string            `bson:"address,omitempty" json:"address,omitempty"`
	Age        *int               `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	IsActive   *bool              `bson:"is_active" json:"is_active"`
	Timestamps `bson:",inline"`
}

func (u *User) ApplyDefaults() {
	if u.IsActive == nil {
		u.IsActive = boolPtr(true)
	}
}
