package handler

import "github.com/shopspring/decimal"

// CreateProductRequest is a new marketplace listing
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,notblank,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"120.50"`
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	Unit        string          `json:"unit" binding:"required,notblank,max=50"`
}

// ImageUploadRequest asks for a presigned product image upload
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// AddToCartRequest adds a product to the caller's cart
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// CheckoutRequest converts the cart into orders
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required,notblank,max=500"`
}
