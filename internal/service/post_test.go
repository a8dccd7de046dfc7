package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
	"miniblog/internal/repository/mocks"
	"miniblog/internal/service"
)

func TestPostService_Create_Success(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo, nil)
	ctx := context.Background()

	mockPostRepo.On("Save", ctx, mock.MatchedBy(func(post *domain.Post) bool {
		assert.Equal(t, "alice", post.Author)
		assert.Equal(t, "Hi", post.Title)
		assert.Equal(t, "World", post.Body)
		_, err := time.Parse(time.RFC3339, post.CreatedAt)
		assert.NoError(t, err, "timestamp should be RFC 3339")
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Post).ID = 1
		}).
		Return(nil).
		Once()

	post, err := postService.Create(ctx, "alice", "Hi", "World")

	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, uint(1), post.ID)
	assert.Equal(t, "alice", post.Author)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Create_MissingFields(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo, nil)

	_, err := postService.Create(context.Background(), "alice", "", "body")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	_, err = postService.Create(context.Background(), "alice", "title", "")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	mockPostRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostService_Create_InvalidatesCache(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockCache := new(mocks.PostCache)
	postService := service.NewPostService(mockPostRepo, mockCache)
	ctx := context.Background()

	mockPostRepo.On("Save", ctx, mock.AnythingOfType("*domain.Post")).Return(nil).Once()
	mockCache.On("InvalidateList", ctx).Return(nil).Once()

	_, err := postService.Create(ctx, "alice", "Hi", "World")

	require.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestPostService_List_CacheHit(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockCache := new(mocks.PostCache)
	postService := service.NewPostService(mockPostRepo, mockCache)
	ctx := context.Background()

	cached := []domain.Post{{ID: 2, Title: "second"}, {ID: 1, Title: "first"}}
	mockCache.On("GetList", ctx).Return(cached, true, nil).Once()

	posts, err := postService.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, posts)
	mockPostRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	mockCache.AssertExpectations(t)
}

func TestPostService_List_CacheMissFetchesAndStores(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockCache := new(mocks.PostCache)
	postService := service.NewPostService(mockPostRepo, mockCache)
	ctx := context.Background()

	fromDB := []domain.Post{{ID: 1, Title: "first"}}
	mockCache.On("GetList", ctx).Return(nil, false, nil).Once()
	mockPostRepo.On("FindAll", ctx).Return(fromDB, nil).Once()
	mockCache.On("SetList", ctx, fromDB).Return(nil).Once()

	posts, err := postService.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, fromDB, posts)
	mockPostRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestPostService_List_CacheErrorFallsThrough(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockCache := new(mocks.PostCache)
	postService := service.NewPostService(mockPostRepo, mockCache)
	ctx := context.Background()

	fromDB := []domain.Post{{ID: 1}}
	mockCache.On("GetList", ctx).Return(nil, false, errors.New("connection refused")).Once()
	mockPostRepo.On("FindAll", ctx).Return(fromDB, nil).Once()
	mockCache.On("SetList", ctx, fromDB).Return(nil).Once()

	posts, err := postService.List(ctx)

	require.NoError(t, err, "a broken cache must not fail the request")
	assert.Equal(t, fromDB, posts)
}

func TestPostService_Get_NotFound(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo, nil)
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, uint(99)).
		Return(nil, repository.ErrPostNotFound).
		Once()

	post, err := postService.Get(ctx, 99)

	require.Error(t, err)
	assert.Nil(t, post)
	assert.True(t, errors.Is(err, service.ErrPostNotFound))
}
