package handler

// CreatePostRequest is a new forum thread or knowledge article
type CreatePostRequest struct {
	Title      string `json:"title" binding:"required,notblank,max=200"`
	Content    string `json:"content" binding:"required,notblank"`
	CategoryID string `json:"category_id" binding:"required,uuid"`
}

// CreateCommentRequest is a reply to a post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000"`
}

// ListPostsQuery holds listing parameters shared by forum and knowledge base
type ListPostsQuery struct {
	Limit int    `form:"limit" binding:"omitempty,min=1"`
	Sort  string `form:"sort" binding:"omitempty,oneof=date likes"`
}
