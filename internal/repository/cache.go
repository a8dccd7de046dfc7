package repository

import (
	"context"

	"miniblog/internal/domain"
)

// PostCache caches the full ordered post list. Implementations are best
// effort; callers must treat every method as optional.
type PostCache interface {
	// GetList returns the cached list and whether the cache held one.
	GetList(ctx context.Context) ([]domain.Post, bool, error)

	// SetList stores a fresh copy of the list.
	SetList(ctx context.Context, posts []domain.Post) error

	// InvalidateList drops the cached list after a write.
	InvalidateList(ctx context.Context) error
}
