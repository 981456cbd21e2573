package content

import (
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
)

// PostType discriminates forum threads from knowledge-base articles
type PostType string

const (
	PostTypeForum PostType = "forum"
	PostTypeBlog  PostType = "blog"
)

// IsValid reports whether t is a known post type
func (t PostType) IsValid() bool {
	return t == PostTypeForum || t == PostTypeBlog
}

// CategoryType returns the taxonomy type a post of this type must be tagged with
func (t PostType) CategoryType() taxonomy.CategoryType {
	if t == PostTypeBlog {
		return taxonomy.CategoryTypeBlog
	}
	return taxonomy.CategoryTypeForum
}

// Post is a forum thread or knowledge-base article
type Post struct {
	shared.BaseAggregateRoot
	Title      string
	Content    string
	CategoryID uuid.UUID
	PostType   PostType
	UserID     uuid.UUID
	IsApproved bool
	Likes      int
}

// NewPost creates a post in the given category.
// Posts written by an admin are approved immediately; others wait for moderation.
func NewPost(author identity.Actor, title, body string, category *taxonomy.Category, postType PostType) (*Post, error) {
	if err := author.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if !postType.IsValid() {
		return nil, shared.NewValidationError("Post type must be forum or blog")
	}
	title = shared.NormalizeText(title)
	body = shared.NormalizeText(body)
	if title == "" {
		return nil, shared.NewValidationError("Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewValidationError("Title cannot exceed 200 characters")
	}
	if body == "" {
		return nil, shared.NewValidationError("Content cannot be empty")
	}
	if category == nil {
		return nil, shared.NewValidationError("Category is required")
	}
	if err := category.RequireType(postType.CategoryType()); err != nil {
		return nil, err
	}

	post := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Content:           body,
		CategoryID:        category.ID,
		PostType:          postType,
		UserID:            author.UserID,
		IsApproved:        author.IsAdmin(),
	}

	post.AddDomainEvent(NewPostCreatedEvent(post))

	return post, nil
}

// Approve makes the post publicly visible. Approving twice is a no-op.
func (p *Post) Approve(admin identity.Actor) error {
	if err := admin.RequireAdmin(); err != nil {
		return err
	}
	if p.IsApproved {
		return nil
	}
	p.IsApproved = true
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPostApprovedEvent(p, admin.UserID))

	return nil
}

// VisibleTo reports whether the actor may read the post
func (p *Post) VisibleTo(actor identity.Actor) bool {
	return p.IsApproved || actor.IsAdmin() || actor.Owns(p.UserID)
}
