// Package taxonomy serves the category tree shared by forum, knowledge base
// and marketplace.
package taxonomy

import (
	"context"
	"fmt"

	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryView is the JSON shape of a category
type CategoryView struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        taxonomy.CategoryType `json:"type"`
	ParentID    *uuid.UUID            `json:"parent_id,omitempty"`
	Level       int                   `json:"level"`
	SortOrder   int                   `json:"sort_order"`
}

// ToCategoryView converts a category
func ToCategoryView(c *taxonomy.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		ParentID:    c.ParentID,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
	}
}

// ListCategoriesInput selects categories
type ListCategoriesInput struct {
	Type     string
	ParentID *uuid.UUID
	// All ignores ParentID and returns every category of Type
	All bool
}

// CategoryService handles category queries and seeding
type CategoryService struct {
	categories taxonomy.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories taxonomy.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger.Named("taxonomy")}
}

// SeedDefaultCategories creates the default tree when no categories exist.
// Returns the number of categories created.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context) (int, error) {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	defaults, err := taxonomy.BuildDefaultCategories()
	if err != nil {
		return 0, err
	}
	if err := s.categories.SaveAll(ctx, defaults); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}

	s.logger.Info("Seeded default categories", zap.Int("count", len(defaults)))
	return len(defaults), nil
}

// ListCategories lists categories of one type in insertion order
func (s *CategoryService) ListCategories(ctx context.Context, input ListCategoriesInput) ([]CategoryView, error) {
	categoryType, err := taxonomy.ParseCategoryType(input.Type)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.FindAll(ctx, taxonomy.CategoryFilter{
		Type:      categoryType,
		ParentID:  input.ParentID,
		AnyParent: input.All,
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	views := make([]CategoryView, len(categories))
	for i := range categories {
		views[i] = ToCategoryView(&categories[i])
	}
	return views, nil
}

// GetCategory returns one category
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryView, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ToCategoryView(category)
	return &view, nil
}

// ResolveCategory loads a category and checks its type. Content and
// commerce call it before writing a category reference.
func (s *CategoryService) ResolveCategory(ctx context.Context, id uuid.UUID, expected taxonomy.CategoryType) (*taxonomy.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.RequireType(expected); err != nil {
		return nil, err
	}
	return category, nil
}
