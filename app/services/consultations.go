package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

// Booking is returned after a consultation is stored.
type Booking struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ConsultationService struct {
	consultations *repositories.Repository[models.Consultation]
}

func NewConsultationService(store docstore.Store) *ConsultationService {
	return &ConsultationService{
		consultations: repositories.New[models.Consultation](store, models.CollectionConsultation),
	}
}

// Book stores a new consultation. Every booking starts out pending,
// whatever status the caller sent.
func (s *ConsultationService) Book(ctx context.Context, c models.Consultation) (Booking, error) {
	c.Status = models.StatusPending
	if err := validate(&c); err != nil {
		return Booking{}, err
	}

	id, err := s.consultations.Create(ctx, &c)
	if err != nil {
		return Booking{}, err
	}
	return Booking{ID: id, Status: models.StatusPending}, nil
}

// List returns up to limit consultations; limit <= 0 means 20.
func (s *ConsultationService) List(ctx context.Context, limit int) ([]models.Consultation, error) {
	return s.consultations.All(ctx, listLimit(limit))
}
