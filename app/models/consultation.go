package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Consultation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Consultation is a doctor booking. Date and Time are kept as the client
// sent them (ISO date, HH:MM); nothing checks availability.
type Consultation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required"`
	Email      string             `bson:"email" json:"email" validate:"required"`
	Phone      *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Doctor     string             `bson:"doctor" json:"doctor" validate:"required"`
	Date       string             `bson:"date" json:"date" validate:"required"`
	Time       string             `bson:"time" json:"time" validate:"required"`
	Notes      *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Status     string             `bson:"status" json:"status" validate:"oneof=pending confirmed completed cancelled"`
	Timestamps `bson:",inline"`
}

func (c *Consultation) ApplyDefaults() {
	if c.Status == "" {
		c.Status = StatusPending
	}
}
