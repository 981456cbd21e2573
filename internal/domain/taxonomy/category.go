package taxonomy

import (
	"fmt"
	"strings"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxCategoryDepth is the maximum depth of the category hierarchy
const MaxCategoryDepth = 5

// CategoryType discriminates which content a category tags
type CategoryType string

const (
	CategoryTypeForum   CategoryType = "forum"
	CategoryTypeBlog    CategoryType = "blog"
	CategoryTypeProduct CategoryType = "product"
)

// IsValid reports whether t is a known category type
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeForum, CategoryTypeBlog, CategoryTypeProduct:
		return true
	}
	return false
}

// ParseCategoryType parses a category type from user input
func ParseCategoryType(value string) (CategoryType, error) {
	t := CategoryType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", shared.NewValidationError("Category type must be one of: forum, blog, product")
	}
	return t, nil
}

// Category is a node in the taxonomy tree.
// Path holds the ancestor IDs and the node's own ID joined by "/".
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
	Type        CategoryType
	ParentID    *uuid.UUID
	Path        string
	Level       int
	SortOrder   int
}

// NewCategory creates a new root category
func NewCategory(name, description string, categoryType CategoryType) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if !categoryType.IsValid() {
		return nil, shared.NewValidationError("Invalid category type")
	}

	category := &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Type:        categoryType,
	}
	category.Path = category.ID.String()

	return category, nil
}

// NewChildCategory creates a category under an existing parent of the same type
func NewChildCategory(name, description string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewValidationError("Parent category is required")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewValidationError(fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	category, err := NewCategory(name, description, parent.Type)
	if err != nil {
		return nil, err
	}
	category.ParentID = &parent.ID
	category.Level = parent.Level + 1
	category.Path = parent.Path + "/" + category.ID.String()

	return category, nil
}

// RequireType fails with a validation error unless the category has the expected type
func (c *Category) RequireType(expected CategoryType) error {
	if c.Type != expected {
		return shared.NewValidationError(fmt.Sprintf("Category %q is a %s category, expected %s", c.Name, c.Type, expected))
	}
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewValidationError("Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("Category name cannot exceed 100 characters")
	}
	return nil
}
