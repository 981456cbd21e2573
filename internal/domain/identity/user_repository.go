package identity

import (
	"context"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *User) error

	// Update saves changes to an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns users matching the filter with the total count
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// ConsultantState filters users by consultant application state
type ConsultantState string

const (
	ConsultantStateAny      ConsultantState = ""
	ConsultantStatePending  ConsultantState = "pending"
	ConsultantStateApproved ConsultantState = "approved"
)

// UserFilter contains filter options for querying users
type UserFilter struct {
	Consultant ConsultantState
	Role       *Role
	shared.Page
	// SortBy is one of created_at, name or email
	SortBy    string
	SortOrder string
}

// NewUserFilter creates a new UserFilter with default values
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      shared.Page{Page: 1, PageSize: shared.DefaultPageSize},
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithConsultantState sets the consultant state filter
func (f UserFilter) WithConsultantState(state ConsultantState) UserFilter {
	f.Consultant = state
	return f
}

// WithRole sets the role filter
func (f UserFilter) WithRole(role Role) UserFilter {
	f.Role = &role
	return f
}

// WithPagination sets pagination parameters
func (f UserFilter) WithPagination(page, pageSize int) UserFilter {
	f.Page = shared.Page{Page: page, PageSize: pageSize}
	return f
}

// WithSorting sets sorting parameters
func (f UserFilter) WithSorting(sortBy, sortOrder string) UserFilter {
	f.SortBy = sortBy
	f.SortOrder = sortOrder
	return f
}
