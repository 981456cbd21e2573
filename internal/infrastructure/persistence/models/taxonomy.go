package models

import (
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string                `gorm:"type:varchar(100);not null"`
	Description string                `gorm:"type:text"`
	Type        taxonomy.CategoryType `gorm:"type:varchar(20);not null;index:idx_categories_type_parent,priority:1"`
	ParentID    *uuid.UUID            `gorm:"type:uuid;index:idx_categories_type_parent,priority:2"`
	Path        string                `gorm:"type:varchar(500);not null;index"`
	Level       int                   `gorm:"not null;default:0"`
	SortOrder   int                   `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *taxonomy.Category {
	return &taxonomy.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
		ParentID:    m.ParentID,
		Path:        m.Path,
		Level:       m.Level,
		SortOrder:   m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *taxonomy.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.Type = c.Type
	m.ParentID = c.ParentID
	m.Path = c.Path
	m.Level = c.Level
	m.SortOrder = c.SortOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *taxonomy.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
