package content

import (
	"context"

	"github.com/google/uuid"
)

// PostSort selects the ordering of post listings
type PostSort string

const (
	PostSortDate  PostSort = "date"
	PostSortLikes PostSort = "likes"
)

// PostFilter selects posts for listing
type PostFilter struct {
	PostType   *PostType
	CategoryID *uuid.UUID
	UserID     *uuid.UUID
	// Approved filters on the approval flag when set
	Approved *bool
	SortBy   PostSort
	Limit    int
}

// ApprovedOnly returns a filter restricted to approved posts of the given type
func ApprovedOnly(postType PostType) PostFilter {
	approved := true
	return PostFilter{PostType: &postType, Approved: &approved, SortBy: PostSortDate}
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create persists a new post
	Create(ctx context.Context, post *Post) error

	// Update saves changes to an existing post
	Update(ctx context.Context, post *Post) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindAll returns posts matching the filter
	FindAll(ctx context.Context, filter PostFilter) ([]Post, error)

	// Search returns approved posts whose title or content contains query
	Search(ctx context.Context, query string) ([]Post, error)

	// IncrementLikes atomically adds one like to an approved post
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)

	// Count returns the number of posts matching the filter
	Count(ctx context.Context, filter PostFilter) (int64, error)
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// Create persists a new comment
	Create(ctx context.Context, comment *Comment) error

	// FindByPost returns the comments of a post, oldest first
	FindByPost(ctx context.Context, postID uuid.UUID) ([]Comment, error)
}
