// Package content implements the forum, the knowledge base and search.
package content

import (
	"context"
	"fmt"
	"strings"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryResolver loads a category and checks its type
type CategoryResolver interface {
	ResolveCategory(ctx context.Context, id uuid.UUID, expected taxonomy.CategoryType) (*taxonomy.Category, error)
}

// PostService handles posts, comments, likes and search
type PostService struct {
	posts      content.PostRepository
	comments   content.CommentRepository
	products   commerce.ProductRepository
	categories CategoryResolver
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	posts content.PostRepository,
	comments content.CommentRepository,
	products commerce.ProductRepository,
	categories CategoryResolver,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		comments:   comments,
		products:   products,
		categories: categories,
		events:     events,
		logger:     logger.Named("content"),
	}
}

// CreatePost creates a forum thread or knowledge-base article.
// Admin posts are approved immediately.
func (s *PostService) CreatePost(ctx context.Context, author identity.Actor, input CreatePostInput) (*PostView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "create_post")
	defer span.End()

	if err := author.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if !input.PostType.IsValid() {
		return nil, shared.NewValidationError("Post type must be forum or blog")
	}
	category, err := s.categories.ResolveCategory(ctx, input.CategoryID, input.PostType.CategoryType())
	if err != nil {
		return nil, err
	}

	post, err := content.NewPost(author, input.Title, input.Content, category, input.PostType)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.publish(ctx, post)

	telemetry.SetAttributes(span, telemetry.SpanAttrPostID, post.ID.String(), telemetry.SpanAttrCategoryID, category.ID.String())
	logger.L(ctx).Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("post_type", string(post.PostType)),
		zap.Bool("approved", post.IsApproved),
	)

	view := ToPostView(post)
	return &view, nil
}

// ApprovePost publishes a pending post. Admin only.
func (s *PostService) ApprovePost(ctx context.Context, admin identity.Actor, postID uuid.UUID) (*PostView, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	var (
		post    *content.Post
		changed bool
	)
	err := shared.RetryOnConflict(func(int) error {
		var err error
		if post, err = s.posts.FindByID(ctx, postID); err != nil {
			return err
		}
		changed = !post.IsApproved
		if err := post.Approve(admin); err != nil || !changed {
			return err
		}
		return s.posts.Update(ctx, post)
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("approve post: %w", err)
	}
	if changed {
		s.publish(ctx, post)
		logger.L(ctx).Info("Post approved", zap.String("post_id", post.ID.String()))
	}

	view := ToPostView(post)
	return &view, nil
}

// ListPendingPosts lists posts awaiting moderation. Admin only.
func (s *PostService) ListPendingPosts(ctx context.Context, admin identity.Actor) ([]PostView, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	pending := false
	posts, err := s.posts.FindAll(ctx, content.PostFilter{Approved: &pending, SortBy: content.PostSortDate})
	if err != nil {
		return nil, fmt.Errorf("list pending posts: %w", err)
	}
	return ToPostViews(posts), nil
}

// AddComment appends a comment to a post the author can see
func (s *PostService) AddComment(ctx context.Context, author identity.Actor, postID uuid.UUID, body string) (*CommentView, error) {
	if err := author.RequireAuthenticated(); err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(author) {
		return nil, shared.NewNotFoundError("Post")
	}

	comment, err := content.NewComment(author, post, body)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	logger.L(ctx).Debug("Comment added", zap.String("post_id", post.ID.String()))
	view := ToCommentView(comment)
	return &view, nil
}

// GetPost returns a post with its comments. Unapproved posts are only
// visible to their author and admins.
func (s *PostService) GetPost(ctx context.Context, actor identity.Actor, postID uuid.UUID) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(actor) {
		return nil, shared.NewNotFoundError("Post")
	}

	comments, err := s.comments.FindByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	detail := &PostDetail{PostView: ToPostView(post), Comments: make([]CommentView, len(comments))}
	for i := range comments {
		detail.Comments[i] = ToCommentView(&comments[i])
	}
	return detail, nil
}

// LikePost adds one like to an approved post and returns the new count
func (s *PostService) LikePost(ctx context.Context, actor identity.Actor, postID uuid.UUID) (int, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return 0, err
	}
	likes, err := s.posts.IncrementLikes(ctx, postID)
	if err != nil {
		if shared.IsNotFound(err) {
			return 0, shared.NewNotFoundError("Post")
		}
		return 0, fmt.Errorf("like post: %w", err)
	}
	return likes, nil
}

// ListForumPosts lists approved forum threads, newest first
func (s *PostService) ListForumPosts(ctx context.Context, categoryID *uuid.UUID, limit int) ([]PostView, error) {
	filter := content.ApprovedOnly(content.PostTypeForum)
	filter.CategoryID = categoryID
	filter.Limit = clampLimit(limit)

	posts, err := s.posts.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list forum posts: %w", err)
	}
	return ToPostViews(posts), nil
}

// ListKnowledgePosts lists approved articles by date or by likes
func (s *PostService) ListKnowledgePosts(ctx context.Context, sortBy content.PostSort, limit int) ([]PostView, error) {
	filter := content.ApprovedOnly(content.PostTypeBlog)
	if sortBy == content.PostSortLikes {
		filter.SortBy = content.PostSortLikes
	}
	filter.Limit = clampLimit(limit)

	posts, err := s.posts.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list knowledge posts: %w", err)
	}
	return ToPostViews(posts), nil
}

// SearchContent finds approved posts and products containing the query.
// Matching is a case-sensitive substring test on NFC-normalized text.
func (s *PostService) SearchContent(ctx context.Context, query string) (*SearchResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "search")
	defer span.End()

	query = shared.NormalizeQuery(query)
	result := &SearchResult{Query: query, Posts: []PostView{}, Products: []commerceapp.ProductView{}}
	if strings.TrimSpace(query) == "" {
		return result, nil
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrQuery, len(query))

	posts, err := s.posts.Search(ctx, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("search posts: %w", err)
	}
	products, err := s.products.Search(ctx, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("search products: %w", err)
	}

	result.Posts = ToPostViews(posts)
	result.Products = commerceapp.ToProductViews(products)
	return result, nil
}

func (s *PostService) publish(ctx context.Context, post *content.Post) {
	pending := post.GetDomainEvents()
	post.ClearDomainEvents()
	if s.events == nil || len(pending) == 0 {
		return
	}
	if err := s.events.Publish(ctx, pending...); err != nil {
		logger.L(ctx).Warn("Failed to publish domain events", zap.Error(err))
	}
}
