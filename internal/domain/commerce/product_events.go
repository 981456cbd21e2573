package commerce

import (
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeProduct = "Product"
	AggregateTypeOrder   = "Order"
)

// Commerce domain event types
const (
	EventTypeProductListed   = "ProductListed"
	EventTypeProductApproved = "ProductApproved"
	EventTypeOrderPlaced     = "OrderPlaced"
)

// ProductListedEvent is published when a product is listed
type ProductListedEvent struct {
	shared.BaseDomainEvent
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	IsApproved bool            `json:"is_approved"`
}

// NewProductListedEvent creates a new ProductListedEvent
func NewProductListedEvent(p *Product) *ProductListedEvent {
	return &ProductListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductListed, AggregateTypeProduct, p.ID, p.UserID),
		Name:            p.Name,
		Price:           p.Price,
		IsApproved:      p.IsApproved,
	}
}

// ProductApprovedEvent is published when an admin approves a product
type ProductApprovedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
}

// NewProductApprovedEvent creates a new ProductApprovedEvent
func NewProductApprovedEvent(p *Product, adminID uuid.UUID) *ProductApprovedEvent {
	return &ProductApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductApproved, AggregateTypeProduct, p.ID, adminID),
		SellerID:        p.UserID,
	}
}

// OrderPlacedEvent is published once per checkout after commit
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderIDs []uuid.UUID     `json:"order_ids"`
	Lines    int             `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent for a checkout
func NewOrderPlacedEvent(userID uuid.UUID, orders []*Order) *OrderPlacedEvent {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	var aggID uuid.UUID
	if len(ids) > 0 {
		aggID = ids[0]
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, aggID, userID),
		OrderIDs:        ids,
		Lines:           len(orders),
		Total:           SumTotals(orders),
	}
}
