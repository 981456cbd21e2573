package handler

import (
	contentapp "github.com/agrifarma/backend/internal/application/content"
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostHandler serves forum threads, knowledge articles and search
type PostHandler struct {
	BaseHandler
	postService *contentapp.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *contentapp.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListForumPosts godoc
// @Summary      List forum threads
// @Description  Approved forum threads, newest first
// @Tags         forum
// @Produce      json
// @Param        category_id query string false "Filter by category"
// @Param        limit       query int    false "Max results (default 50, max 100)"
// @Success      200 {object} dto.Response{data=[]contentapp.PostView}
// @Failure      400 {object} ErrorResponse
// @Router       /forum/posts [get]
func (h *PostHandler) ListForumPosts(c *gin.Context) {
	var query ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	categoryID, ok := h.queryUUID(c, "category_id")
	if !ok {
		return
	}
	posts, err := h.postService.ListForumPosts(c.Request.Context(), categoryID, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// CreateForumPost godoc
// @Summary      Start forum thread
// @Description  Threads by non-admins await approval
// @Tags         forum
// @Accept       json
// @Produce      json
// @Param        request body CreatePostRequest true "Thread"
// @Success      201 {object} dto.Response{data=contentapp.PostView}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forum/posts [post]
func (h *PostHandler) CreateForumPost(c *gin.Context) {
	h.createPost(c, content.PostTypeForum)
}

// ListKnowledgePosts godoc
// @Summary      List knowledge articles
// @Description  Approved articles sorted by date (default) or likes
// @Tags         knowledge
// @Produce      json
// @Param        sort  query string false "date or likes"
// @Param        limit query int    false "Max results (default 50, max 100)"
// @Success      200 {object} dto.Response{data=[]contentapp.PostView}
// @Failure      400 {object} ErrorResponse
// @Router       /knowledge/posts [get]
func (h *PostHandler) ListKnowledgePosts(c *gin.Context) {
	var query ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	posts, err := h.postService.ListKnowledgePosts(c.Request.Context(), content.PostSort(query.Sort), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// CreateKnowledgePost godoc
// @Summary      Publish article
// @Description  Articles by non-admins await approval
// @Tags         knowledge
// @Accept       json
// @Produce      json
// @Param        request body CreatePostRequest true "Article"
// @Success      201 {object} dto.Response{data=contentapp.PostView}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /knowledge/posts [post]
func (h *PostHandler) CreateKnowledgePost(c *gin.Context) {
	h.createPost(c, content.PostTypeBlog)
}

func (h *PostHandler) createPost(c *gin.Context, postType content.PostType) {
	var req CreatePostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category_id")
		return
	}
	post, err := h.postService.CreatePost(c.Request.Context(), actor(c), contentapp.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: categoryID,
		PostType:   postType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// GetPost godoc
// @Summary      Get post
// @Description  A post with its comments. Unapproved posts are visible to the author and admins only.
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=contentapp.PostDetail}
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.GetPost(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// AddComment godoc
// @Summary      Comment on post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Post ID"
// @Param        request body CreateCommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=contentapp.CommentView}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	comment, err := h.postService.AddComment(c.Request.Context(), actor(c), id, req.Content)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// LikePost godoc
// @Summary      Like post
// @Description  Increments the like counter and returns the new value
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=LikeData}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	likes, err := h.postService.LikePost(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LikeData{Likes: likes})
}

// SearchContent godoc
// @Summary      Search
// @Description  Approved posts and products containing the query. An empty query returns empty lists.
// @Tags         search
// @Produce      json
// @Param        q query string false "Search text"
// @Success      200 {object} dto.Response{data=contentapp.SearchResult}
// @Router       /search [get]
func (h *PostHandler) SearchContent(c *gin.Context) {
	result, err := h.postService.SearchContent(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
