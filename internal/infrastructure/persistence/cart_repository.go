package persistence

import (
	"context"
	"errors"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// AddQuantity inserts the cart line or, when the user already has the
// product in the cart, adds to the existing quantity in the same statement.
func (r *GormCartRepository) AddQuantity(ctx context.Context, item *commerce.CartItem) (*commerce.CartItem, error) {
	model := &models.CartItemModel{}
	model.FromDomain(item)

	db := r.db.WithContext(ctx)
	if err := db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(model).Error; err != nil {
		return nil, err
	}

	var stored models.CartItemModel
	if err := db.
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// FindByID finds a cart line by ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.CartItem, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's cart lines in insertion order
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]commerce.CartItem, error) {
	var itemModels []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toCartItems(itemModels), nil
}

// Delete removes a cart line
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toCartItems(itemModels []models.CartItemModel) []commerce.CartItem {
	items := make([]commerce.CartItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByUser returns the user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]commerce.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]commerce.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count returns the number of orders, optionally for one user
func (r *GormOrderRepository) Count(ctx context.Context, userID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ commerce.CartRepository  = (*GormCartRepository)(nil)
	_ commerce.OrderRepository = (*GormOrderRepository)(nil)
)
