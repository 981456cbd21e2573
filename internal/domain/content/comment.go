package content

import (
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Comment is an append-only reply to a post
type Comment struct {
	shared.BaseEntity
	Content string
	UserID  uuid.UUID
	PostID  uuid.UUID
}

// NewComment creates a comment on the given post
func NewComment(author identity.Actor, post *Post, body string) (*Comment, error) {
	if err := author.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, shared.NewNotFoundError("Post")
	}
	body = shared.NormalizeText(body)
	if body == "" {
		return nil, shared.NewValidationError("Comment cannot be empty")
	}
	if len(body) > 5000 {
		return nil, shared.NewValidationError("Comment cannot exceed 5000 characters")
	}

	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		Content:    body,
		UserID:     author.UserID,
		PostID:     post.ID,
	}, nil
}
