package handler

import "github.com/agrifarma/backend/internal/interfaces/http/dto"

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// MessageData is returned by operations with nothing else to report
// @Description Confirmation message
type MessageData struct {
	Message string `json:"message"`
}

// LikeData is returned after liking a post
// @Description Updated like count
type LikeData struct {
	Likes int `json:"likes"`
}
