package repository

import (
	"context"

	"miniblog/internal/domain"
)

// PostRepository defines storage operations for posts.
type PostRepository interface {
	// Save inserts the post and fills the generated ID.
	Save(ctx context.Context, post *domain.Post) error

	// FindAll returns every post ordered by id descending.
	FindAll(ctx context.Context) ([]domain.Post, error)

	// FindByID returns ErrPostNotFound when no such post exists.
	FindByID(ctx context.Context, id uint) (*domain.Post, error)
}
