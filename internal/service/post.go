package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// PostService handles post creation and retrieval. The cache is optional;
// a nil cache disables it without any other behavioral change.
type PostService struct {
	postRepo repository.PostRepository
	cache    repository.PostCache
}

func NewPostService(postRepo repository.PostRepository, cache repository.PostCache) *PostService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for PostService")
	}
	return &PostService{postRepo: postRepo, cache: cache}
}

// Create stores a new post. The author always comes from the verified
// token identity, never from client input, and the timestamp is stamped
// here so clients cannot forge it.
func (s *PostService) Create(ctx context.Context, author, title, body string) (*domain.Post, error) {
	logCtx := logrus.WithField("author", author)

	if title == "" || body == "" {
		return nil, ErrInvalidInput
	}

	post := &domain.Post{
		Title:     title,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		logCtx.WithError(err).Error("Database error during post creation")
		return nil, fmt.Errorf("db error: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateList(ctx); err != nil {
			// Cache errors never fail the request; the TTL bounds staleness.
			logCtx.WithError(err).Warn("Failed to invalidate post list cache")
		}
	}

	logCtx.WithField("post_id", post.ID).Info("Post created")
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	if s.cache != nil {
		posts, ok, err := s.cache.GetList(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Post list cache read failed")
		} else if ok {
			return posts, nil
		}
	}

	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, posts); err != nil {
			logrus.WithError(err).Warn("Post list cache write failed")
		}
	}
	return posts, nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, id uint) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}
