package repository

import (
	"context"

	"miniblog/internal/domain"
)

// UserRepository defines storage operations for user accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Save inserts the user and fills the generated ID. A username
	// uniqueness violation is reported as ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error
}
