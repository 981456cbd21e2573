package handler

import (
	identityapp "github.com/agrifarma/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves consultant directory and user administration endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListConsultants godoc
// @Summary      List consultants
// @Description  Approved consultants ordered by name
// @Tags         consultants
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]identityapp.UserView,meta=dto.Meta}
// @Router       /consultants [get]
func (h *UserHandler) ListConsultants(c *gin.Context) {
	page, ok := h.bindPage(c)
	if !ok {
		return
	}
	result, err := h.userService.ListConsultants(c.Request.Context(), actor(c), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, result)
}

// GetProfile godoc
// @Summary      Get profile
// @Description  Public profile of a user. Email is shown only to the user and admins.
// @Tags         consultants
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserView}
// @Failure      404 {object} ErrorResponse
// @Router       /consultants/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	profile, err := h.userService.GetProfile(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ApplyForConsultancy godoc
// @Summary      Apply as consultant
// @Description  Submit or resubmit a consultant application; approval resets to pending
// @Tags         consultants
// @Accept       json
// @Produce      json
// @Param        request body ConsultantApplicationRequest true "Application"
// @Success      200 {object} dto.Response{data=identityapp.UserView}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /consultants/apply [post]
func (h *UserHandler) ApplyForConsultancy(c *gin.Context) {
	var req ConsultantApplicationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.userService.ApplyForConsultancy(c.Request.Context(), actor(c), identityapp.ConsultantApplicationInput{
		Category:  req.Category,
		Expertise: req.Expertise,
		Contact:   req.Contact,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ListUsers godoc
// @Summary      List users
// @Description  Every registered user, newest first
// @Tags         admin
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]identityapp.UserView,meta=dto.Meta}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := h.bindPage(c)
	if !ok {
		return
	}
	result, err := h.userService.ListUsers(c.Request.Context(), actor(c), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, result)
}

// ListPendingConsultants godoc
// @Summary      Pending consultants
// @Description  Consultant applications awaiting approval
// @Tags         admin
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]identityapp.UserView,meta=dto.Meta}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/pending [get]
func (h *UserHandler) ListPendingConsultants(c *gin.Context) {
	page, ok := h.bindPage(c)
	if !ok {
		return
	}
	result, err := h.userService.ListPendingConsultants(c.Request.Context(), actor(c), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, result)
}

// ApproveConsultant godoc
// @Summary      Approve consultant
// @Description  Approve a consultant application. Approving twice is a no-op.
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserView}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/{id}/approve [post]
func (h *UserHandler) ApproveConsultant(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	profile, err := h.userService.ApproveConsultant(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
