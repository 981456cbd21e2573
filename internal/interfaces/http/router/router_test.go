package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func text(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(NewDomainGroup("home", "").GET("/home", text("home"))).
		Register(NewDomainGroup("categories", "/categories").GET("", text("list"))).
		Setup()

	w := serve(engine, http.MethodGet, "/api/v1/home")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "home", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/categories")
	assert.Equal(t, "list", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/home").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("marketplace", "/marketplace")
		assert.Equal(t, "marketplace", g.Name())
		assert.Equal(t, "/marketplace", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("cart", "/cart").
			GET("", text("view")).
			POST("", text("add")).
			DELETE("/:id", text("remove"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "view", serve(engine, http.MethodGet, "/api/v1/cart").Body.String())
		assert.Equal(t, "add", serve(engine, http.MethodPost, "/api/v1/cart").Body.String())
		assert.Equal(t, "remove", serve(engine, http.MethodDelete, "/api/v1/cart/42").Body.String())
	})

	t.Run("group middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("admin", "/admin").
			Use(func(c *gin.Context) {
				c.AbortWithStatus(http.StatusForbidden)
			}).
			GET("/stats", text("stats"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/admin/stats").Code)
	})

	t.Run("nil handlers are skipped", func(t *testing.T) {
		engine := gin.New()
		var disabled gin.HandlerFunc
		g := NewDomainGroup("auth", "/auth").
			Use(disabled).
			POST("/login", disabled, text("token"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPost, "/api/v1/auth/login")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "token", w.Body.String())
	})

	t.Run("subgroups inherit prefix and middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("marketplace", "/marketplace").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "marketplace")
			})
		g.Group("products", "/products").GET("/:id", text("product"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/marketplace/products/7")
		assert.Equal(t, "product", w.Body.String())
		assert.Equal(t, "marketplace", w.Header().Get("X-Group"))
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("content", "")
	g.Group("forum", "/forum").GET("/posts", text("")).POST("/posts", text(""))
	g.GET("/search", text(""))

	assert.ElementsMatch(t, []Route{
		{Method: http.MethodGet, Path: "/search"},
		{Method: http.MethodGet, Path: "/forum/posts"},
		{Method: http.MethodPost, Path: "/forum/posts"},
	}, g.Routes())

	products := NewDomainGroup("products", "/marketplace/products").GET("", text(""))
	assert.Equal(t, []Route{{Method: http.MethodGet, Path: "/marketplace/products"}}, products.Routes())
}
