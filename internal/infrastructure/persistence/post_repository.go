package persistence

import (
	"context"
	"errors"

	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(ctx context.Context, post *content.Post) error {
	return r.db.WithContext(ctx).Create(models.PostModelFromDomain(post)).Error
}

// Update updates an existing post
func (r *GormPostRepository) Update(ctx context.Context, post *content.Post) error {
	// likes is owned by IncrementLikes
	return updateVersioned(ctx, r.db, models.PostModelFromDomain(post), post.ID, post.Version, "likes")
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns posts matching the filter
func (r *GormPostRepository) FindAll(ctx context.Context, filter content.PostFilter) ([]content.Post, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PostModel{}), filter)

	if filter.SortBy == content.PostSortLikes {
		query = query.Order("likes DESC")
	}
	query = query.Order("created_at DESC").Order("id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var postModels []models.PostModel
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPosts(postModels), nil
}

// Search returns approved posts whose title or content contains query
func (r *GormPostRepository) Search(ctx context.Context, query string) ([]content.Post, error) {
	if query == "" {
		return []content.Post{}, nil
	}
	cond, args := containsAny(r.db, query, "title", "content")

	var postModels []models.PostModel
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Where(cond, args...).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPosts(postModels), nil
}

// IncrementLikes adds one like to an approved post with a single UPDATE
// and returns the new count
func (r *GormPostRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PostModel{}).
			Where("id = ? AND is_approved = ?", id, true).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Model(&models.PostModel{}).
			Select("likes").
			Where("id = ?", id).
			Scan(&likes).Error
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}

// Count returns the number of posts matching the filter
func (r *GormPostRepository) Count(ctx context.Context, filter content.PostFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PostModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPostRepository) applyFilter(query *gorm.DB, filter content.PostFilter) *gorm.DB {
	if filter.PostType != nil {
		query = query.Where("post_type = ?", *filter.PostType)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	return query
}

func toPosts(postModels []models.PostModel) []content.Post {
	posts := make([]content.Post, len(postModels))
	for i := range postModels {
		posts[i] = *postModels[i].ToDomain()
	}
	return posts
}

// GormCommentRepository implements CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *content.Comment) error {
	model := &models.CommentModel{}
	model.FromDomain(comment)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByPost returns the comments of a post, oldest first
func (r *GormCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]content.Comment, error) {
	var commentModels []models.CommentModel
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}
	comments := make([]content.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = *commentModels[i].ToDomain()
	}
	return comments, nil
}

var (
	_ content.PostRepository    = (*GormPostRepository)(nil)
	_ content.CommentRepository = (*GormCommentRepository)(nil)
)
