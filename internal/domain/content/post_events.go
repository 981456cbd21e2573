package content

import (
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Post
const AggregateTypePost = "Post"

// Post domain event types
const (
	EventTypePostCreated  = "PostCreated"
	EventTypePostApproved = "PostApproved"
)

// PostCreatedEvent is published when a post is created
type PostCreatedEvent struct {
	shared.BaseDomainEvent
	PostType   PostType  `json:"post_type"`
	CategoryID uuid.UUID `json:"category_id"`
	IsApproved bool      `json:"is_approved"`
}

// NewPostCreatedEvent creates a new PostCreatedEvent
func NewPostCreatedEvent(post *Post) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostCreated, AggregateTypePost, post.ID, post.UserID),
		PostType:        post.PostType,
		CategoryID:      post.CategoryID,
		IsApproved:      post.IsApproved,
	}
}

// PostApprovedEvent is published when a moderator approves a post
type PostApprovedEvent struct {
	shared.BaseDomainEvent
	AuthorID uuid.UUID `json:"author_id"`
}

// NewPostApprovedEvent creates a new PostApprovedEvent
func NewPostApprovedEvent(post *Post, adminID uuid.UUID) *PostApprovedEvent {
	return &PostApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostApproved, AggregateTypePost, post.ID, adminID),
		AuthorID:        post.UserID,
	}
}
