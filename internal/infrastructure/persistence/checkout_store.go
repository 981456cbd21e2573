package persistence

import (
	"context"
	"fmt"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCheckoutStore turns a user's cart into orders inside one transaction
type GormCheckoutStore struct {
	db *gorm.DB
}

// NewGormCheckoutStore creates a new GormCheckoutStore
func NewGormCheckoutStore(db *gorm.DB) *GormCheckoutStore {
	return &GormCheckoutStore{db: db}
}

// Checkout locks the user's cart rows, builds orders from them, inserts the
// orders and deletes the rows. Nothing is written when build fails or the
// cart is empty.
func (s *GormCheckoutStore) Checkout(
	ctx context.Context,
	userID uuid.UUID,
	build func(commerce.Cart) ([]*commerce.Order, error),
) ([]*commerce.Order, error) {
	var orders []*commerce.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC")
		// SQLite has no row locks; its single writer already serializes the transaction.
		if tx.Dialector.Name() != DriverSQLite {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var itemModels []models.CartItemModel
		if err := query.Find(&itemModels).Error; err != nil {
			return fmt.Errorf("lock cart items: %w", err)
		}
		if len(itemModels) == 0 {
			return commerce.ErrEmptyCart
		}

		productIDs := make([]uuid.UUID, len(itemModels))
		itemIDs := make([]uuid.UUID, len(itemModels))
		for i, m := range itemModels {
			productIDs[i] = m.ProductID
			itemIDs[i] = m.ID
		}

		var productModels []models.ProductModel
		if err := tx.Where("id IN ?", productIDs).Find(&productModels).Error; err != nil {
			return fmt.Errorf("load cart products: %w", err)
		}
		byID := make(map[uuid.UUID]*commerce.Product, len(productModels))
		for i := range productModels {
			byID[productModels[i].ID] = productModels[i].ToDomain()
		}

		cart := commerce.Cart{UserID: userID, Lines: make([]commerce.CartLine, 0, len(itemModels))}
		for i := range itemModels {
			product, ok := byID[itemModels[i].ProductID]
			if !ok {
				return shared.NewNotFoundError("Product")
			}
			cart.Lines = append(cart.Lines, commerce.CartLine{
				Item:    *itemModels[i].ToDomain(),
				Product: *product,
			})
		}

		built, err := build(cart)
		if err != nil {
			return err
		}

		orderModels := make([]*models.OrderModel, len(built))
		for i, o := range built {
			orderModels[i] = &models.OrderModel{}
			orderModels[i].FromDomain(o)
		}
		if err := tx.Create(&orderModels).Error; err != nil {
			return fmt.Errorf("insert orders: %w", err)
		}

		if err := tx.Where("id IN ?", itemIDs).Delete(&models.CartItemModel{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		orders = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Ensure GormCheckoutStore implements CheckoutStore
var _ commerce.CheckoutStore = (*GormCheckoutStore)(nil)
