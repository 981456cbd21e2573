package handler

import (
	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	contentapp "github.com/agrifarma/backend/internal/application/content"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the moderation queues for posts and products.
// User administration lives on UserHandler, reports on ReportHandler.
type AdminHandler struct {
	BaseHandler
	postService    *contentapp.PostService
	productService *commerceapp.ProductService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(postService *contentapp.PostService, productService *commerceapp.ProductService) *AdminHandler {
	return &AdminHandler{postService: postService, productService: productService}
}

// ListAllProducts godoc
// @Summary      All products
// @Description  Every product regardless of approval, newest first
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]commerceapp.ProductView}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminHandler) ListAllProducts(c *gin.Context) {
	products, err := h.productService.ListAllProducts(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ApproveProduct godoc
// @Summary      Approve product
// @Tags         admin
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=commerceapp.ProductView}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/approve [post]
func (h *AdminHandler) ApproveProduct(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.ApproveProduct(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListPendingPosts godoc
// @Summary      Pending posts
// @Description  Forum threads and articles awaiting approval
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]contentapp.PostView}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/posts/pending [get]
func (h *AdminHandler) ListPendingPosts(c *gin.Context) {
	posts, err := h.postService.ListPendingPosts(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// ApprovePost godoc
// @Summary      Approve post
// @Tags         admin
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=contentapp.PostView}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/posts/{id}/approve [post]
func (h *AdminHandler) ApprovePost(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.ApprovePost(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}
