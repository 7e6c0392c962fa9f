package repository

import (
	"context"
	"errors"

	"posts/internal/models"

	"gorm.io/gorm"
)

// PostUpdate carries the fields of a partial post update.
type PostUpdate struct {
	Title *string
	Body  *string
}

// PostRepository defines persistence operations for posts. Every lookup is
// scoped to the owning user.
type PostRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	GetForUser(ctx context.Context, userID, postID uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post, changes PostUpdate) error
	DeleteForUser(ctx context.Context, userID, postID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetForUser(ctx context.Context, userID, postID uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", postID, userID).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts post. A vanished owner surfaces as ErrUserMissing.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return Translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, changes PostUpdate) error {
	columns := map[string]any{}
	if changes.Title != nil {
		columns["title"] = *changes.Title
	}
	if changes.Body != nil {
		columns["body"] = *changes.Body
	}
	if len(columns) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND user_id = ?", post.ID, post.UserID).
		Updates(columns)
	if result.Error != nil {
		return Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	if changes.Title != nil {
		post.Title = *changes.Title
	}
	if changes.Body != nil {
		post.Body = *changes.Body
	}
	return nil
}

func (r *postRepository) DeleteForUser(ctx context.Context, userID, postID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", postID, userID).
		Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
