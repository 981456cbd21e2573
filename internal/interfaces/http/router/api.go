package router

import (
	"github.com/agrifarma/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the handlers served under the API prefix
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Category    *handler.CategoryHandler
	Post        *handler.PostHandler
	Marketplace *handler.MarketplaceHandler
	Report      *handler.ReportHandler
	Admin       *handler.AdminHandler
}

// Guards are the access middleware applied per route.
// AuthRateLimit may be nil to disable login/register throttling.
type Guards struct {
	// Bearer rejects requests without a valid access token
	Bearer gin.HandlerFunc
	// Optional resolves the caller when a token is present
	Optional gin.HandlerFunc
	// Admin runs after Bearer and rejects non-admin callers
	Admin         gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
}

// APIGroups builds the route groups of the AgriFarma API
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	authGroup := NewDomainGroup("auth", "/auth").
		POST("/register", g.AuthRateLimit, h.Auth.Register).
		POST("/login", g.AuthRateLimit, h.Auth.Login).
		POST("/refresh", g.AuthRateLimit, h.Auth.Refresh).
		POST("/logout", g.Bearer, h.Auth.Logout).
		GET("/me", g.Bearer, h.Auth.Me)

	consultants := NewDomainGroup("consultants", "/consultants").
		GET("", h.User.ListConsultants).
		GET("/:id", g.Optional, h.User.GetProfile).
		POST("/apply", g.Bearer, h.User.ApplyForConsultancy)

	categories := NewDomainGroup("categories", "/categories").
		GET("", h.Category.ListCategories).
		GET("/:id", h.Category.GetCategory)

	content := NewDomainGroup("content", "")
	content.Group("forum", "/forum").
		GET("/posts", h.Post.ListForumPosts).
		POST("/posts", g.Bearer, h.Post.CreateForumPost)
	content.Group("knowledge", "/knowledge").
		GET("/posts", h.Post.ListKnowledgePosts).
		POST("/posts", g.Bearer, h.Post.CreateKnowledgePost)
	content.Group("posts", "/posts").
		GET("/:id", g.Optional, h.Post.GetPost).
		POST("/:id/comments", g.Bearer, h.Post.AddComment).
		POST("/:id/like", g.Bearer, h.Post.LikePost)
	content.GET("/search", h.Post.SearchContent)

	marketplace := NewDomainGroup("marketplace", "/marketplace")
	marketplace.Group("products", "/products").
		GET("", h.Marketplace.ListProducts).
		GET("/:id", g.Optional, h.Marketplace.GetProduct).
		POST("", g.Bearer, h.Marketplace.CreateProduct).
		POST("/:id/image-url", g.Bearer, h.Marketplace.RequestImageUpload)
	marketplace.Group("cart", "/cart").
		Use(g.Bearer).
		GET("", h.Marketplace.ViewCart).
		POST("", h.Marketplace.AddToCart).
		DELETE("/:id", h.Marketplace.RemoveFromCart)
	marketplace.POST("/checkout", g.Bearer, h.Marketplace.Checkout).
		GET("/orders", g.Bearer, h.Marketplace.ListOrders)

	reports := NewDomainGroup("reports", "").
		GET("/home", h.Report.Home).
		GET("/dashboard", g.Bearer, h.Report.Dashboard)

	admin := NewDomainGroup("admin", "/admin").
		Use(g.Bearer, g.Admin).
		GET("/stats", h.Report.AdminStats).
		GET("/reports/daily", h.Report.AdminDailyReport).
		GET("/users", h.User.ListUsers).
		GET("/consultants/pending", h.User.ListPendingConsultants).
		POST("/consultants/:id/approve", h.User.ApproveConsultant).
		GET("/products", h.Admin.ListAllProducts).
		POST("/products/:id/approve", h.Admin.ApproveProduct).
		GET("/posts/pending", h.Admin.ListPendingPosts).
		POST("/posts/:id/approve", h.Admin.ApprovePost)

	return []*DomainGroup{authGroup, consultants, categories, content, marketplace, reports, admin}
}
