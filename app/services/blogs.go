package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

type BlogService struct {
	posts *repositories.Repository[models.BlogPost]
}

func NewBlogService(store docstore.Store) *BlogService {
	return &BlogService{
		posts: repositories.New[models.BlogPost](store, models.CollectionBlogPost),
	}
}

func (s *BlogService) List(ctx context.Context) ([]models.BlogPost, error) {
	return s.posts.All(ctx, 0)
}

// Create rejects a slug that is already taken, then validates and inserts.
// The check and the insert are separate calls; a unique index on slug
// (see database/migrations) turns a lost race into the same Conflict.
func (s *BlogService) Create(ctx context.Context, post models.BlogPost) (string, error) {
	taken, err := s.posts.Exists(ctx, docstore.Filter{"slug": post.Slug})
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.New(apperr.Conflict, "Slug already exists")
	}

	if err := validate(&post); err != nil {
		return "", err
	}

	id, err := s.posts.Create(ctx, &post)
	if apperr.Is(err, apperr.Conflict) {
		return "", apperr.New(apperr.Conflict, "Slug already exists")
	}
	return id, err
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, found, err := s.posts.FindBy(ctx, docstore.Filter{"slug": slug})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.NotFound, "Not found")
	}
	return post, nil
}
