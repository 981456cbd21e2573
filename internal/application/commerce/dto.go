package commerce

import (
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListProductInput holds a new marketplace listing
type ListProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Quantity    int
	Unit        string
}

// ProductView is the JSON shape of a product
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit"`
	UserID      uuid.UUID       `json:"user_id"`
	IsApproved  bool            `json:"is_approved"`
	ImageKey    string          `json:"image_key,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToProductView converts a product
func ToProductView(p *commerce.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		UserID:      p.UserID,
		IsApproved:  p.IsApproved,
		ImageKey:    p.ImageKey,
		CreatedAt:   p.CreatedAt,
	}
}

// ToProductViews converts a slice of products
func ToProductViews(products []commerce.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = ToProductView(&products[i])
	}
	return views
}

// ImageUploadView is a presigned upload target for a product image
type ImageUploadView struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CartLineView is one line of the cart with the current product price
type CartLineView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartView is a user's cart
type CartView struct {
	Lines     []CartLineView  `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// ToCartView converts a cart
func ToCartView(cart commerce.Cart) CartView {
	lines := make([]CartLineView, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = CartLineView{
			ID:          l.Item.ID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Unit:        l.Product.Unit,
			UnitPrice:   l.Product.Price,
			Quantity:    l.Item.Quantity,
			Subtotal:    l.Subtotal(),
		}
	}
	return CartView{Lines: lines, ItemCount: cart.ItemCount(), Total: cart.Total()}
}

// CartItemView is a single cart row
type CartItemView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderView is the JSON shape of an order
type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOrderView converts an order
func ToOrderView(o *commerce.Order) OrderView {
	return OrderView{
		ID:              o.ID,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		UnitPrice:       o.UnitPrice,
		Quantity:        o.Quantity,
		TotalPrice:      o.TotalPrice,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
	}
}

// CheckoutResult lists the orders created by a checkout
type CheckoutResult struct {
	Orders []OrderView     `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}
