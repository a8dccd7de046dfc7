package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"miniblog/internal/domain"
)

// PostCache is a mock of repository.PostCache.
type PostCache struct {
	mock.Mock
}

func (m *PostCache) GetList(ctx context.Context) ([]domain.Post, bool, error) {
	args := m.Called(ctx)
	var posts []domain.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.Post)
	}
	return posts, args.Bool(1), args.Error(2)
}

func (m *PostCache) SetList(ctx context.Context, posts []domain.Post) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

func (m *PostCache) InvalidateList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
