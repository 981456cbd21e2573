package models

import (
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/google/uuid"
)

// PostModel is the persistence model for the Post domain entity.
type PostModel struct {
	AggregateModel
	Title      string           `gorm:"type:varchar(200);not null"`
	Content    string           `gorm:"type:text;not null"`
	CategoryID uuid.UUID        `gorm:"type:uuid;not null;index"`
	PostType   content.PostType `gorm:"type:varchar(20);not null;index:idx_posts_type_approved,priority:1"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	IsApproved bool             `gorm:"not null;default:false;index:idx_posts_type_approved,priority:2"`
	Likes      int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts the persistence model to a domain Post entity.
func (m *PostModel) ToDomain() *content.Post {
	p := &content.Post{
		Title:      m.Title,
		Content:    m.Content,
		CategoryID: m.CategoryID,
		PostType:   m.PostType,
		UserID:     m.UserID,
		IsApproved: m.IsApproved,
		Likes:      m.Likes,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Post entity.
func (m *PostModel) FromDomain(p *content.Post) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Content = p.Content
	m.CategoryID = p.CategoryID
	m.PostType = p.PostType
	m.UserID = p.UserID
	m.IsApproved = p.IsApproved
	m.Likes = p.Likes
}

// PostModelFromDomain creates a new persistence model from a domain Post entity.
func PostModelFromDomain(p *content.Post) *PostModel {
	m := &PostModel{}
	m.FromDomain(p)
	return m
}

// CommentModel is the persistence model for the Comment domain entity.
type CommentModel struct {
	BaseModel
	Content string    `gorm:"type:text;not null"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PostID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts the persistence model to a domain Comment entity.
func (m *CommentModel) ToDomain() *content.Comment {
	return &content.Comment{
		BaseEntity: m.BaseModel.ToDomain(),
		Content:    m.Content,
		UserID:     m.UserID,
		PostID:     m.PostID,
	}
}

// FromDomain populates the persistence model from a domain Comment entity.
func (m *CommentModel) FromDomain(c *content.Comment) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Content = c.Content
	m.UserID = c.UserID
	m.PostID = c.PostID
}
