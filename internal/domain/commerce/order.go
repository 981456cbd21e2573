package commerce

import (
	"strings"
	"time"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a finalized purchase of one cart line.
// UnitPrice and TotalPrice are snapshots taken at checkout.
type Order struct {
	shared.BaseEntity
	UserID          uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	UnitPrice       decimal.Decimal
	Quantity        int
	TotalPrice      decimal.Decimal
	ShippingAddress string
}

// NewOrder creates an order from a cart line
func NewOrder(line CartLine, shippingAddress string, at time.Time) (*Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, shared.NewValidationError("Shipping address is required")
	}
	if len(shippingAddress) > 500 {
		return nil, shared.NewValidationError("Shipping address cannot exceed 500 characters")
	}
	if err := ValidateCartQuantity(line.Item.Quantity); err != nil {
		return nil, err
	}

	base := shared.NewBaseEntity()
	base.CreatedAt = at
	base.UpdatedAt = at

	return &Order{
		BaseEntity:      base,
		UserID:          line.Item.UserID,
		ProductID:       line.Product.ID,
		ProductName:     line.Product.Name,
		UnitPrice:       line.Product.Price,
		Quantity:        line.Item.Quantity,
		TotalPrice:      line.Subtotal(),
		ShippingAddress: shippingAddress,
	}, nil
}

// SumTotals returns the sum of the orders' total prices
func SumTotals(orders []*Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return total
}
