package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductFilter selects products for listing
type ProductFilter struct {
	CategoryID *uuid.UUID
	UserID     *uuid.UUID
	// Approved filters on the approval flag when set
	Approved *bool
	Limit    int
}

// ApprovedProducts returns a filter restricted to approved listings
func ApprovedProducts() ProductFilter {
	approved := true
	return ProductFilter{Approved: &approved}
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create persists a new product
	Create(ctx context.Context, product *Product) error

	// Update saves changes to an existing product
	Update(ctx context.Context, product *Product) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds products by IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns products matching the filter, newest first
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Search returns approved products whose name or description contains query
	Search(ctx context.Context, query string) ([]Product, error)

	// Count returns the number of products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)
}

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// AddQuantity inserts the line or increments its quantity atomically
	// and returns the resulting row
	AddQuantity(ctx context.Context, item *CartItem) (*CartItem, error)

	// FindByID finds a cart line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByUser returns the user's cart lines in insertion order
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	// Delete removes a cart line
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByUser returns the user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// Count returns the number of orders, optionally for one user
	Count(ctx context.Context, userID *uuid.UUID) (int64, error)
}

// CheckoutStore converts a user's cart into orders atomically
type CheckoutStore interface {
	// Checkout locks the user's cart lines, builds orders with build and
	// persists them while deleting the lines, all in one transaction.
	// It returns ErrEmptyCart without side effects when the cart is empty.
	Checkout(ctx context.Context, userID uuid.UUID, build func(Cart) ([]*Order, error)) ([]*Order, error)
}

// CheckoutLock serializes checkouts per user across processes
type CheckoutLock interface {
	// Acquire blocks until the lock for userID is held or wait elapses.
	// The returned release func must be called to free the lock.
	Acquire(ctx context.Context, userID uuid.UUID, wait time.Duration) (release func(), err error)
}
