package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	contentapp "github.com/agrifarma/backend/internal/application/content"
	identityapp "github.com/agrifarma/backend/internal/application/identity"
	reportapp "github.com/agrifarma/backend/internal/application/report"
	taxonomyapp "github.com/agrifarma/backend/internal/application/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/auth"
	"github.com/agrifarma/backend/internal/infrastructure/cache"
	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/agrifarma/backend/internal/infrastructure/event"
	"github.com/agrifarma/backend/internal/infrastructure/persistence"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/agrifarma/backend/internal/infrastructure/storage"
	"github.com/agrifarma/backend/internal/interfaces/http/dto"
	"github.com/agrifarma/backend/internal/interfaces/http/handler"
	"github.com/agrifarma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@agrifarma.com"
	adminPassword = "admin123"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

// newAPI wires the full API against an in-memory SQLite database
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	logger := zap.NewNop()
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(logger)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(ctx) })

	factory := cache.NewFactory(config.RedisConfig{Enabled: false}, cache.WithLogger(logger))
	blacklist, err := factory.CreateTokenBlacklist()
	require.NoError(t, err)
	lock, err := factory.CreateCheckoutLock(time.Minute)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "api-test-secret-with-32-characters!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "agrifarma-test",
		MaxRefreshCount:        3,
	})

	users := persistence.NewGormUserRepository(db)
	posts := persistence.NewGormPostRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)

	categoryService := taxonomyapp.NewCategoryService(persistence.NewGormCategoryRepository(db), logger)
	_, err = categoryService.SeedDefaultCategories(ctx)
	require.NoError(t, err)

	userService := identityapp.NewUserService(users, bus, logger)
	_, err = userService.SeedAdmin(ctx, adminEmail, adminPassword, "Admin User")
	require.NoError(t, err)

	authService := identityapp.NewAuthService(users, jwtService, blacklist, bus, logger)
	postService := contentapp.NewPostService(posts, persistence.NewGormCommentRepository(db), products, categoryService, bus, logger)
	productService := commerceapp.NewProductService(products, categoryService, storage.NewStubObjectStorage(), bus, logger)
	cartService := commerceapp.NewCartService(
		persistence.NewGormCartRepository(db), products, orders,
		persistence.NewGormCheckoutStore(db), lock, bus, logger,
	)
	reportService := reportapp.NewReportService(persistence.NewGormReportRepository(db), posts, products, orders, time.UTC)

	jwtCfg := middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: logger}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := NewRouter(engine)
	for _, g := range APIGroups(Handlers{
		Auth:        handler.NewAuthHandler(authService, userService),
		User:        handler.NewUserHandler(userService),
		Category:    handler.NewCategoryHandler(categoryService),
		Post:        handler.NewPostHandler(postService),
		Marketplace: handler.NewMarketplaceHandler(productService, cartService),
		Report:      handler.NewReportHandler(reportService),
		Admin:       handler.NewAdminHandler(postService, productService),
	}, Guards{
		Bearer:   middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		Optional: middleware.OptionalJWTAuthMiddleware(jwtCfg),
		Admin:    middleware.RequireAdmin(),
	}) {
		r.Register(g)
	}
	r.Setup()

	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// ok performs a request, requires the expected status, and decodes data into out
func (a *apiClient) ok(status int, method, path, token string, body, out any) envelope {
	a.t.Helper()
	code, env := a.do(method, path, token, body)
	require.Equal(a.t, status, code, "%s %s: %+v", method, path, env.Error)
	require.True(a.t, env.Success)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
	return env
}

func (a *apiClient) fails(status int, code, method, path, token string, body any) envelope {
	a.t.Helper()
	got, env := a.do(method, path, token, body)
	require.Equal(a.t, status, got, "%s %s", method, path)
	require.False(a.t, env.Success)
	require.NotNil(a.t, env.Error)
	assert.Equal(a.t, code, env.Error.Code)
	return env
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	var session identityapp.SessionResult
	a.ok(http.StatusOK, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &session)
	return session.AccessToken
}

func (a *apiClient) register(name, email, role string) string {
	a.t.Helper()
	a.ok(http.StatusCreated, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123", "role": role,
	}, nil)
	return a.login(email, "password123")
}

func (a *apiClient) firstCategory(categoryType string) string {
	a.t.Helper()
	var categories []taxonomyapp.CategoryView
	a.ok(http.StatusOK, http.MethodGet, "/categories?type="+categoryType, "", nil, &categories)
	require.NotEmpty(a.t, categories)
	return categories[0].ID.String()
}

func TestAPI_RouteTable(t *testing.T) {
	groups := APIGroups(Handlers{
		Auth: &handler.AuthHandler{}, User: &handler.UserHandler{}, Category: &handler.CategoryHandler{},
		Post: &handler.PostHandler{}, Marketplace: &handler.MarketplaceHandler{},
		Report: &handler.ReportHandler{}, Admin: &handler.AdminHandler{},
	}, Guards{})

	var routes []string
	for _, g := range groups {
		for _, r := range g.Routes() {
			routes = append(routes, r.Method+" "+r.Path)
		}
	}
	assert.Len(t, routes, 38)
	for _, want := range []string{
		"POST /auth/register",
		"GET /consultants/:id",
		"GET /search",
		"POST /marketplace/products/:id/image-url",
		"DELETE /marketplace/cart/:id",
		"POST /marketplace/checkout",
		"GET /admin/reports/daily",
		"POST /admin/posts/:id/approve",
	} {
		assert.Contains(t, routes, want)
	}
}

func TestAPI_AuthFlow(t *testing.T) {
	api := newAPI(t)

	var user identityapp.UserView
	api.ok(http.StatusCreated, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ali Farmer", "email": "Ali@Example.com", "password": "password123",
		"profession": "Farmer", "expertise_level": "Beginner",
	}, &user)
	assert.Equal(t, "ali@example.com", user.Email)
	assert.Equal(t, "member", string(user.Role))

	api.fails(http.StatusConflict, dto.ErrCodeAlreadyExists, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ali Again", "email": "ali@example.com", "password": "password123",
	})
	env := api.fails(http.StatusBadRequest, dto.ErrCodeValidation, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "   ", "email": "not-an-email", "password": "short",
	})
	assert.NotEmpty(t, env.Error.Details)

	api.fails(http.StatusBadRequest, dto.ErrCodeValidation, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Sneaky", "email": "sneaky@example.com", "password": "password123", "role": "admin",
	})

	api.fails(http.StatusUnauthorized, dto.ErrCodeUnauthorized, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ali@example.com", "password": "wrong-password"})

	var session identityapp.SessionResult
	api.ok(http.StatusOK, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ali@example.com", "password": "password123"}, &session)
	require.NotEmpty(t, session.AccessToken)

	var me identityapp.UserView
	api.ok(http.StatusOK, http.MethodGet, "/auth/me", session.AccessToken, nil, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "ali@example.com", me.Email)

	var refreshed identityapp.SessionResult
	api.ok(http.StatusOK, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refresh_token": session.RefreshToken}, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)

	api.ok(http.StatusOK, http.MethodPost, "/auth/logout", session.AccessToken, nil, nil)
	api.fails(http.StatusUnauthorized, dto.ErrCodeTokenInvalid, http.MethodGet, "/auth/me", session.AccessToken, nil)
	api.fails(http.StatusUnauthorized, dto.ErrCodeUnauthorized, http.MethodGet, "/auth/me", "", nil)
}

func TestAPI_ConsultantApproval(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	memberToken := api.register("Sara Grower", "sara@example.com", "member")

	var applied identityapp.UserView
	api.ok(http.StatusOK, http.MethodPost, "/consultants/apply", memberToken, map[string]string{
		"category": "Crops", "expertise": "Ten years of wheat", "contact": "0300-1234567",
	}, &applied)
	assert.True(t, applied.IsConsultant)
	assert.False(t, applied.IsConsultantApproved)

	var consultants []identityapp.UserView
	env := api.ok(http.StatusOK, http.MethodGet, "/consultants", "", nil, &consultants)
	assert.Empty(t, consultants)
	require.NotNil(t, env.Meta)

	api.fails(http.StatusForbidden, dto.ErrCodeForbidden, http.MethodGet, "/admin/consultants/pending", memberToken, nil)

	var pending []identityapp.UserView
	env = api.ok(http.StatusOK, http.MethodGet, "/admin/consultants/pending", adminToken, nil, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), env.Meta.Total)

	api.ok(http.StatusOK, http.MethodPost, "/admin/consultants/"+applied.ID.String()+"/approve", adminToken, nil, nil)

	api.ok(http.StatusOK, http.MethodGet, "/consultants", "", nil, &consultants)
	require.Len(t, consultants, 1)
	assert.Empty(t, consultants[0].Email)

	var profile identityapp.UserView
	api.ok(http.StatusOK, http.MethodGet, "/consultants/"+applied.ID.String(), memberToken, nil, &profile)
	assert.Equal(t, "sara@example.com", profile.Email)

	api.fails(http.StatusBadRequest, dto.ErrCodeInvalidInput, http.MethodGet, "/consultants/not-a-uuid", "", nil)
}

func TestAPI_ForumModeration(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	memberToken := api.register("Bilal", "bilal@example.com", "member")
	forum := api.firstCategory("forum")

	var post contentapp.PostView
	api.ok(http.StatusCreated, http.MethodPost, "/forum/posts", memberToken, map[string]string{
		"title": "Wheat rust", "content": "Yellow stripes on leaves", "category_id": forum,
	}, &post)
	assert.False(t, post.IsApproved)

	blog := api.firstCategory("blog")
	api.fails(http.StatusBadRequest, dto.ErrCodeInvalidInput, http.MethodPost, "/forum/posts", memberToken, map[string]string{
		"title": "Wrong tree", "content": "Blog category", "category_id": blog,
	})

	var listed []contentapp.PostView
	api.ok(http.StatusOK, http.MethodGet, "/forum/posts", "", nil, &listed)
	assert.Empty(t, listed)

	api.fails(http.StatusNotFound, dto.ErrCodeNotFound, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	api.ok(http.StatusOK, http.MethodGet, "/posts/"+post.ID.String(), memberToken, nil, nil)

	var queue []contentapp.PostView
	api.ok(http.StatusOK, http.MethodGet, "/admin/posts/pending", adminToken, nil, &queue)
	require.Len(t, queue, 1)
	api.ok(http.StatusOK, http.MethodPost, "/admin/posts/"+post.ID.String()+"/approve", adminToken, nil, nil)

	api.ok(http.StatusOK, http.MethodGet, "/forum/posts?category_id="+forum, "", nil, &listed)
	require.Len(t, listed, 1)

	var comment contentapp.CommentView
	api.ok(http.StatusCreated, http.MethodPost, "/posts/"+post.ID.String()+"/comments", adminToken,
		map[string]string{"content": "Spray fungicide early"}, &comment)

	var likes handler.LikeData
	api.ok(http.StatusOK, http.MethodPost, "/posts/"+post.ID.String()+"/like", memberToken, nil, &likes)
	assert.Equal(t, 1, likes.Likes)

	var detail contentapp.PostDetail
	api.ok(http.StatusOK, http.MethodGet, "/posts/"+post.ID.String(), "", nil, &detail)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Spray fungicide early", detail.Comments[0].Content)

	var found contentapp.SearchResult
	api.ok(http.StatusOK, http.MethodGet, "/search?q=rust", "", nil, &found)
	assert.Len(t, found.Posts, 1)
	api.ok(http.StatusOK, http.MethodGet, "/search?q=Rust", "", nil, &found)
	assert.Empty(t, found.Posts)
}

func TestAPI_KnowledgeSort(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	blog := api.firstCategory("blog")

	var first, second contentapp.PostView
	api.ok(http.StatusCreated, http.MethodPost, "/knowledge/posts", adminToken, map[string]string{
		"title": "Drip irrigation", "content": "Saves water", "category_id": blog,
	}, &first)
	api.ok(http.StatusCreated, http.MethodPost, "/knowledge/posts", adminToken, map[string]string{
		"title": "Crop rotation", "content": "Restores soil", "category_id": blog,
	}, &second)
	assert.True(t, first.IsApproved)

	api.ok(http.StatusOK, http.MethodPost, "/posts/"+first.ID.String()+"/like", adminToken, nil, nil)

	var byLikes []contentapp.PostView
	api.ok(http.StatusOK, http.MethodGet, "/knowledge/posts?sort=likes", "", nil, &byLikes)
	require.Len(t, byLikes, 2)
	assert.Equal(t, first.ID, byLikes[0].ID)

	api.fails(http.StatusBadRequest, dto.ErrCodeValidation, http.MethodGet, "/knowledge/posts?sort=views", "", nil)
}

func TestAPI_MarketplaceCheckout(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	sellerToken := api.register("Seller", "seller@example.com", "member")
	buyerToken := api.register("Buyer", "buyer@example.com", "member")
	grains := api.firstCategory("product")

	var product commerceapp.ProductView
	api.ok(http.StatusCreated, http.MethodPost, "/marketplace/products", sellerToken, map[string]any{
		"name": "Basmati Rice", "description": "Premium", "price": "10.00",
		"category_id": grains, "quantity": 5, "unit": "kg",
	}, &product)
	assert.False(t, product.IsApproved)

	var market []commerceapp.ProductView
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/products", "", nil, &market)
	assert.Empty(t, market)

	api.fails(http.StatusNotFound, dto.ErrCodeNotFound, http.MethodPost, "/marketplace/cart", buyerToken,
		map[string]any{"product_id": product.ID.String(), "quantity": 1})

	var upload commerceapp.ImageUploadView
	api.ok(http.StatusOK, http.MethodPost, "/marketplace/products/"+product.ID.String()+"/image-url", sellerToken,
		map[string]string{"content_type": "image/png"}, &upload)
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, http.MethodPut, upload.Method)

	api.ok(http.StatusOK, http.MethodPost, "/admin/products/"+product.ID.String()+"/approve", adminToken, nil, nil)
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/products", "", nil, &market)
	require.Len(t, market, 1)

	api.fails(http.StatusUnprocessableEntity, dto.ErrCodeEmptyCart, http.MethodPost, "/marketplace/checkout", buyerToken,
		map[string]string{"shipping_address": "Lahore"})

	api.ok(http.StatusOK, http.MethodPost, "/marketplace/cart", buyerToken,
		map[string]any{"product_id": product.ID.String(), "quantity": 2}, nil)
	api.ok(http.StatusOK, http.MethodPost, "/marketplace/cart", buyerToken,
		map[string]any{"product_id": product.ID.String()}, nil)

	var cart commerceapp.CartView
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/cart", buyerToken, nil, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, "30", cart.Total.String())

	var result commerceapp.CheckoutResult
	api.ok(http.StatusCreated, http.MethodPost, "/marketplace/checkout", buyerToken,
		map[string]string{"shipping_address": "12 Canal Road, Lahore"}, &result)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "30", result.Orders[0].TotalPrice.String())

	api.ok(http.StatusOK, http.MethodGet, "/marketplace/cart", buyerToken, nil, &cart)
	assert.Empty(t, cart.Lines)

	var orders []commerceapp.OrderView
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/orders", buyerToken, nil, &orders)
	require.Len(t, orders, 1)

	// Listed stock is informational; checkout leaves it alone.
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/products/"+product.ID.String(), "", nil, &product)
	assert.Equal(t, 5, product.Quantity)

	var dashboard reportapp.UserDashboard
	api.ok(http.StatusOK, http.MethodGet, "/dashboard", buyerToken, nil, &dashboard)
	assert.Equal(t, int64(1), dashboard.OrderCount)
}

func TestAPI_CartRemoveIsOwnerScoped(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	buyerToken := api.register("Buyer", "buyer@example.com", "member")
	otherToken := api.register("Other", "other@example.com", "member")
	grains := api.firstCategory("product")

	var product commerceapp.ProductView
	api.ok(http.StatusCreated, http.MethodPost, "/marketplace/products", adminToken, map[string]any{
		"name": "Wheat", "price": 4.5, "category_id": grains, "quantity": 10, "unit": "kg",
	}, &product)

	var item commerceapp.CartItemView
	api.ok(http.StatusOK, http.MethodPost, "/marketplace/cart", buyerToken,
		map[string]any{"product_id": product.ID.String(), "quantity": 1}, &item)

	api.fails(http.StatusForbidden, dto.ErrCodeForbidden, http.MethodDelete, "/marketplace/cart/"+item.ID.String(), otherToken, nil)
	var cart commerceapp.CartView
	api.ok(http.StatusOK, http.MethodGet, "/marketplace/cart", buyerToken, nil, &cart)
	require.Len(t, cart.Lines, 1)

	api.ok(http.StatusOK, http.MethodDelete, "/marketplace/cart/"+item.ID.String(), buyerToken, nil, nil)
	api.fails(http.StatusNotFound, dto.ErrCodeNotFound, http.MethodDelete, "/marketplace/cart/"+item.ID.String(), buyerToken, nil)
}

func TestAPI_Reports(t *testing.T) {
	api := newAPI(t)
	adminToken := api.login(adminEmail, adminPassword)
	memberToken := api.register("Member", "member@example.com", "member")

	var home reportapp.HomeStats
	api.ok(http.StatusOK, http.MethodGet, "/home", "", nil, &home)
	assert.Equal(t, int64(2), home.TotalUsers)

	api.fails(http.StatusForbidden, dto.ErrCodeForbidden, http.MethodGet, "/admin/stats", memberToken, nil)
	api.fails(http.StatusUnauthorized, dto.ErrCodeUnauthorized, http.MethodGet, "/admin/stats", "", nil)

	var stats map[string]any
	api.ok(http.StatusOK, http.MethodGet, "/admin/stats", adminToken, nil, &stats)
	assert.EqualValues(t, 2, stats["total_users"])

	var daily map[string]any
	api.ok(http.StatusOK, http.MethodGet, "/admin/reports/daily", adminToken, nil, &daily)
	assert.Equal(t, "N/A", daily["top_category"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), daily["date"])

	var users []identityapp.UserView
	env := api.ok(http.StatusOK, http.MethodGet, "/admin/users?page=1&page_size=1", adminToken, nil, &users)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)

	var products []commerceapp.ProductView
	api.ok(http.StatusOK, http.MethodGet, "/admin/products", adminToken, nil, &products)
	assert.Empty(t, products)
}
