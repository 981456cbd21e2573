package commerce

import (
	"time"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart errors
var (
	ErrEmptyCart          = shared.NewDomainError("EMPTY_CART", "Your cart is empty")
	ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "Another checkout for this cart is in progress")
)

// CartItem is one line of a user's in-progress order, unique per (user, product)
type CartItem struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewCartItem creates a cart line for the user
func NewCartItem(user identity.Actor, productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := user.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if err := ValidateCartQuantity(quantity); err != nil {
		return nil, err
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     user.UserID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// ValidateCartQuantity checks a quantity added to the cart
func ValidateCartQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("Quantity must be at least 1")
	}
	if quantity > 10000 {
		return shared.NewValidationError("Quantity cannot exceed 10000")
	}
	return nil
}

// CheckOwner fails with FORBIDDEN unless the actor owns the cart line
func (c *CartItem) CheckOwner(actor identity.Actor) error {
	if !actor.Owns(c.UserID) {
		return shared.NewForbiddenError("Cart item belongs to another user")
	}
	return nil
}

// CartLine pairs a cart item with its product
type CartLine struct {
	Item    CartItem
	Product Product
}

// Subtotal returns the line's current price
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.LineTotal(l.Item.Quantity)
}

// Cart is a user's cart view
type Cart struct {
	UserID uuid.UUID
	Lines  []CartLine
}

// Total returns the sum of price x quantity over all lines
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total number of units in the cart
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Item.Quantity
	}
	return n
}

// CheckoutAt builds one order per cart line, snapshotting prices
func (c Cart) CheckoutAt(shippingAddress string, at time.Time) ([]*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	orders := make([]*Order, 0, len(c.Lines))
	for _, l := range c.Lines {
		o, err := NewOrder(l, shippingAddress, at)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
