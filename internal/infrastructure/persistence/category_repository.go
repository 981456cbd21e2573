package persistence

import (
	"context"
	"errors"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*taxonomy.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns categories matching the filter in insertion order
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter taxonomy.CategoryFilter) ([]taxonomy.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if !filter.AnyParent {
		if filter.ParentID == nil {
			query = query.Where("parent_id IS NULL")
		} else {
			query = query.Where("parent_id = ?", *filter.ParentID)
		}
	}

	var categoryModels []models.CategoryModel
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	return toCategories(categoryModels), nil
}

// Count returns the total number of categories
func (r *GormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveAll inserts categories in one transaction, numbering them after the
// current highest sort order so listings keep insertion order.
func (r *GormCategoryRepository) SaveAll(ctx context.Context, categories []*taxonomy.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&models.CategoryModel{}).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		categoryModels := make([]*models.CategoryModel, len(categories))
		for i, c := range categories {
			c.SortOrder = maxOrder + i + 1
			categoryModels[i] = models.CategoryModelFromDomain(c)
		}
		return tx.Create(&categoryModels).Error
	})
}

func toCategories(categoryModels []models.CategoryModel) []taxonomy.Category {
	categories := make([]taxonomy.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = *categoryModels[i].ToDomain()
	}
	return categories
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ taxonomy.CategoryRepository = (*GormCategoryRepository)(nil)
