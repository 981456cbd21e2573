package content

import (
	"time"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/google/uuid"
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// CreatePostInput holds a new forum thread or article
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
	PostType   content.PostType
}

// PostView is the JSON shape of a post
type PostView struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	CategoryID uuid.UUID        `json:"category_id"`
	PostType   content.PostType `json:"post_type"`
	UserID     uuid.UUID        `json:"user_id"`
	IsApproved bool             `json:"is_approved"`
	Likes      int              `json:"likes"`
	CreatedAt  time.Time        `json:"created_at"`
}

// CommentView is the JSON shape of a comment
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"user_id"`
	PostID    uuid.UUID `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostDetail is a post with its comments, oldest first
type PostDetail struct {
	PostView
	Comments []CommentView `json:"comments"`
}

// SearchResult holds the matches of a content search
type SearchResult struct {
	Query    string                    `json:"query"`
	Posts    []PostView                `json:"posts"`
	Products []commerceapp.ProductView `json:"products"`
}

// ToPostView converts a post
func ToPostView(p *content.Post) PostView {
	return PostView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		CategoryID: p.CategoryID,
		PostType:   p.PostType,
		UserID:     p.UserID,
		IsApproved: p.IsApproved,
		Likes:      p.Likes,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPostViews converts a slice of posts
func ToPostViews(posts []content.Post) []PostView {
	views := make([]PostView, len(posts))
	for i := range posts {
		views[i] = ToPostView(&posts[i])
	}
	return views
}

// ToCommentView converts a comment
func ToCommentView(c *content.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		UserID:    c.UserID,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
