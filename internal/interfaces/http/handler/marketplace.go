package handler

import (
	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MarketplaceHandler serves product listings, carts and orders
type MarketplaceHandler struct {
	BaseHandler
	productService *commerceapp.ProductService
	cartService    *commerceapp.CartService
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(productService *commerceapp.ProductService, cartService *commerceapp.CartService) *MarketplaceHandler {
	return &MarketplaceHandler{productService: productService, cartService: cartService}
}

// ListProducts godoc
// @Summary      List marketplace
// @Description  Approved products, newest first
// @Tags         marketplace
// @Produce      json
// @Param        category_id query string false "Filter by category"
// @Success      200 {object} dto.Response{data=[]commerceapp.ProductView}
// @Failure      400 {object} ErrorResponse
// @Router       /marketplace/products [get]
func (h *MarketplaceHandler) ListProducts(c *gin.Context) {
	categoryID, ok := h.queryUUID(c, "category_id")
	if !ok {
		return
	}
	products, err := h.productService.ListMarketplace(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetProduct godoc
// @Summary      Get product
// @Description  Unapproved products are visible to the seller and admins only
// @Tags         marketplace
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=commerceapp.ProductView}
// @Failure      404 {object} ErrorResponse
// @Router       /marketplace/products/{id} [get]
func (h *MarketplaceHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateProduct godoc
// @Summary      List product
// @Description  Listings by non-admins await approval
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Listing"
// @Success      201 {object} dto.Response{data=commerceapp.ProductView}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/products [post]
func (h *MarketplaceHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category_id")
		return
	}
	product, err := h.productService.ListProduct(c.Request.Context(), actor(c), commerceapp.ListProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  categoryID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// RequestImageUpload godoc
// @Summary      Product image upload URL
// @Description  Presigned PUT URL for the product image. Seller or admin only.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Product ID"
// @Param        request body ImageUploadRequest true "Image content type"
// @Success      200 {object} dto.Response{data=commerceapp.ImageUploadView}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/products/{id}/image-url [post]
func (h *MarketplaceHandler) RequestImageUpload(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req ImageUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	upload, err := h.productService.RequestImageUpload(c.Request.Context(), actor(c), id, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ViewCart godoc
// @Summary      View cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=commerceapp.CartView}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/cart [get]
func (h *MarketplaceHandler) ViewCart(c *gin.Context) {
	cart, err := h.cartService.ViewCart(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddToCart godoc
// @Summary      Add to cart
// @Description  Adds quantity (default 1) to the product's cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddToCartRequest true "Cart item"
// @Success      200 {object} dto.Response{data=commerceapp.CartItemView}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/cart [post]
func (h *MarketplaceHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	item, err := h.cartService.AddToCart(c.Request.Context(), actor(c), productID, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveFromCart godoc
// @Summary      Remove from cart
// @Tags         cart
// @Produce      json
// @Param        id path string true "Cart item ID"
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/cart/{id} [delete]
func (h *MarketplaceHandler) RemoveFromCart(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.cartService.RemoveFromCart(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Item removed from cart"})
}

// Checkout godoc
// @Summary      Checkout
// @Description  Creates one order per cart line and empties the cart atomically. Listed product quantity is left unchanged
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body CheckoutRequest true "Shipping address"
// @Success      201 {object} dto.Response{data=commerceapp.CheckoutResult}
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/checkout [post]
func (h *MarketplaceHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.cartService.Checkout(c.Request.Context(), actor(c), req.ShippingAddress)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListOrders godoc
// @Summary      My orders
// @Description  Orders of the caller, newest first
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=[]commerceapp.OrderView}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketplace/orders [get]
func (h *MarketplaceHandler) ListOrders(c *gin.Context) {
	orders, err := h.cartService.ListOrders(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
