package models

import (
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    int             `gorm:"not null;default:0"`
	Unit        string          `gorm:"type:varchar(20)"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsApproved  bool            `gorm:"not null;default:false;index"`
	ImageKey    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *commerce.Product {
	p := &commerce.Product{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		UserID:      m.UserID,
		IsApproved:  m.IsApproved,
		ImageKey:    m.ImageKey,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *commerce.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.CategoryID = p.CategoryID
	m.Quantity = p.Quantity
	m.Unit = p.Unit
	m.UserID = p.UserID
	m.IsApproved = p.IsApproved
	m.ImageKey = p.ImageKey
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *commerce.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CartItemModel is the persistence model for a cart line.
// (user_id, product_id) is unique so concurrent adds merge into one row.
type CartItemModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:2"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() *commerce.CartItem {
	return &commerce.CartItem{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain CartItem.
func (m *CartItemModel) FromDomain(c *commerce.CartItem) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.ProductID = c.ProductID
	m.Quantity = c.Quantity
}

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_user_created,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity        int             `gorm:"not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingAddress string          `gorm:"type:text;not null"`
	CreatedAt       time.Time       `gorm:"not null;index:idx_orders_user_created,priority:2"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *commerce.Order {
	return &commerce.Order{
		BaseEntity:      shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:          m.UserID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		UnitPrice:       m.UnitPrice,
		Quantity:        m.Quantity,
		TotalPrice:      m.TotalPrice,
		ShippingAddress: m.ShippingAddress,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *commerce.Order) {
	m.ID = o.ID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.UserID = o.UserID
	m.ProductID = o.ProductID
	m.ProductName = o.ProductName
	m.UnitPrice = o.UnitPrice
	m.Quantity = o.Quantity
	m.TotalPrice = o.TotalPrice
	m.ShippingAddress = o.ShippingAddress
}

// AllModels returns every persistence model in dependency order for AutoMigrate.
func AllModels() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&PostModel{},
		&CommentModel{},
		&ProductModel{},
		&CartItemModel{},
		&OrderModel{},
	}
}
