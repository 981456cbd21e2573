package commerce

import (
	"strings"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDetails are the seller-supplied fields of a listing
type ProductDetails struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Unit        string
}

// Product is a marketplace listing
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Quantity    int
	Unit        string
	UserID      uuid.UUID
	IsApproved  bool
	ImageKey    string
}

// NewProduct creates a listing for the seller.
// Listings by an admin are approved immediately; others wait for moderation.
func NewProduct(seller identity.Actor, details ProductDetails, category *taxonomy.Category) (*Product, error) {
	if err := seller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	name := shared.NormalizeText(details.Name)
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	if details.Price.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}
	if details.Quantity < 0 {
		return nil, shared.NewValidationError("Quantity cannot be negative")
	}
	unit := strings.TrimSpace(details.Unit)
	if len(unit) > 20 {
		return nil, shared.NewValidationError("Unit cannot exceed 20 characters")
	}
	if category == nil {
		return nil, shared.NewValidationError("Category is required")
	}
	if err := category.RequireType(taxonomy.CategoryTypeProduct); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       shared.NormalizeText(details.Description),
		Price:             details.Price.Round(2),
		CategoryID:        category.ID,
		Quantity:          details.Quantity,
		Unit:              unit,
		UserID:            seller.UserID,
		IsApproved:        seller.IsAdmin(),
	}

	product.AddDomainEvent(NewProductListedEvent(product))

	return product, nil
}

// Approve makes the listing visible in the marketplace. Approving twice is a no-op.
func (p *Product) Approve(admin identity.Actor) error {
	if err := admin.RequireAdmin(); err != nil {
		return err
	}
	if p.IsApproved {
		return nil
	}
	p.IsApproved = true
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductApprovedEvent(p, admin.UserID))

	return nil
}

// SetPrice changes the listing price. Existing orders keep their snapshot.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	p.Price = price.Round(2)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// AttachImage records the object storage key of the product image
func (p *Product) AttachImage(seller identity.Actor, key string) error {
	if !seller.Owns(p.UserID) && !seller.IsAdmin() {
		return shared.NewForbiddenError("Only the seller can change the product image")
	}
	p.ImageKey = key
	p.Touch()
	p.IncrementVersion()
	return nil
}

// VisibleTo reports whether the actor may read the listing
func (p *Product) VisibleTo(actor identity.Actor) bool {
	return p.IsApproved || actor.IsAdmin() || actor.Owns(p.UserID)
}

// LineTotal returns price x quantity
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
