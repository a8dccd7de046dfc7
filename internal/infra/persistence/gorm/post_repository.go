package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// GormPostRepository is the gorm implementation of repository.PostRepository.
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Save(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("gorm: save post: %w", err)
	}
	return nil
}

func (r *GormPostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	// Non-nil so an empty table serializes as [] rather than null.
	posts := make([]domain.Post, 0)
	err := r.db.WithContext(ctx).Order("id DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all posts: %w", err)
	}
	return posts, nil
}

func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("gorm: find post %d: %w", id, err)
	}
	return &post, nil
}
