package handler

import (
	taxonomyapp "github.com/agrifarma/backend/internal/application/taxonomy"
	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category tree
type CategoryHandler struct {
	BaseHandler
	categoryService *taxonomyapp.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *taxonomyapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories godoc
// @Summary      List categories
// @Description  Categories of a type. Without parent_id only roots are returned; all=true returns the whole tree flattened.
// @Tags         categories
// @Produce      json
// @Param        type      query string false "forum, blog or product"
// @Param        parent_id query string false "Parent category ID"
// @Param        all       query bool   false "Return every level"
// @Success      200 {object} dto.Response{data=[]taxonomyapp.CategoryView}
// @Failure      400 {object} ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	parentID, ok := h.queryUUID(c, "parent_id")
	if !ok {
		return
	}
	categories, err := h.categoryService.ListCategories(c.Request.Context(), taxonomyapp.ListCategoriesInput{
		Type:     c.Query("type"),
		ParentID: parentID,
		All:      c.Query("all") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetCategory godoc
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=taxonomyapp.CategoryView}
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}
