package taxonomy

import (
	"context"

	"github.com/google/uuid"
)

// CategoryFilter selects categories for listing
type CategoryFilter struct {
	Type CategoryType
	// ParentID restricts results to children of a category; nil means roots
	ParentID *uuid.UUID
	// AnyParent ignores ParentID and returns every category of Type
	AnyParent bool
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAll returns categories matching the filter ordered by insertion
	FindAll(ctx context.Context, filter CategoryFilter) ([]Category, error)

	// Count returns the total number of categories
	Count(ctx context.Context) (int64, error)

	// SaveAll inserts categories in order, assigning increasing sort orders
	SaveAll(ctx context.Context, categories []*Category) error
}
