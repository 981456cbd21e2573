package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	contentapp "github.com/agrifarma/backend/internal/application/content"
	identityapp "github.com/agrifarma/backend/internal/application/identity"
	reportapp "github.com/agrifarma/backend/internal/application/report"
	taxonomyapp "github.com/agrifarma/backend/internal/application/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/auth"
	"github.com/agrifarma/backend/internal/infrastructure/cache"
	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/agrifarma/backend/internal/infrastructure/errreport"
	"github.com/agrifarma/backend/internal/infrastructure/event"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/persistence"
	"github.com/agrifarma/backend/internal/infrastructure/storage"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/agrifarma/backend/internal/interfaces/http/handler"
	"github.com/agrifarma/backend/internal/interfaces/http/middleware"
	"github.com/agrifarma/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/agrifarma/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			AgriFarma API
//	@version		1.0
//	@description	Agriculture community and marketplace backend: forum, knowledge base, consultants, marketplace and admin reports.

//	@contact.name	AgriFarma Support
//	@contact.email	support@agrifarma.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.FromConfig(cfg.Log, cfg.App))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = baseLog.Sync() }()

	ctx := context.Background()

	// Telemetry first so the bridged logger and otelgorm see live providers
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			baseLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log := providers.Logs.Bridge(baseLog, zapcore.InfoLevel)

	log.Info("Starting AgriFarma backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	reporter, err := errreport.New(cfg.Sentry, errreport.Options{
		Environment: cfg.App.Env,
		Release:     telemetry.ServiceVersion,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize error reporting", zap.Error(err))
	}
	defer reporter.Flush()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), telemetry.DefaultSlowQueryThreshold)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: !cfg.App.IsProduction(),
		DBSystem:   cfg.Database.Driver,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	// Redis-backed lock and blacklist, in-memory when Redis is off
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	tokenBlacklist, err := cacheFactory.CreateTokenBlacklist()
	if err != nil {
		log.Fatal("Failed to create token blacklist", zap.Error(err))
	}
	checkoutLock, err := cacheFactory.CreateCheckoutLock(cfg.Checkout.LockTTL)
	if err != nil {
		log.Fatal("Failed to create checkout lock", zap.Error(err))
	}

	images := newImageStorage(ctx, cfg, log)

	// Event bus with audit logging and business metrics subscribers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	businessMetrics, err := telemetry.NewBusinessMetrics(providers.Meter.Meter("agrifarma"), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	checkoutStore := persistence.NewGormCheckoutStore(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, eventBus, log)
	userService := identityapp.NewUserService(userRepo, eventBus, log)
	categoryService := taxonomyapp.NewCategoryService(categoryRepo, log)
	postService := contentapp.NewPostService(postRepo, commentRepo, productRepo, categoryService, eventBus, log)
	productService := commerceapp.NewProductService(productRepo, categoryService, images, eventBus, log)
	cartService := commerceapp.NewCartService(cartRepo, productRepo, orderRepo, checkoutStore, checkoutLock, eventBus, log,
		commerceapp.WithCheckoutWait(cfg.Checkout.WaitTimeout),
		commerceapp.WithCheckoutRecorder(businessMetrics),
	)
	reportService := reportapp.NewReportService(reportRepo, postRepo, productRepo, orderRepo, cfg.App.Location())

	if cfg.Bootstrap.SeedOnStart {
		seed(ctx, log, cfg.Bootstrap, categoryService, userService)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. Recovery renders panics re-raised by the Sentry middleware
	// 2. RequestID before logging so every line carries it
	// 3. Security headers, CORS and body limit before any handler work
	// 4. Tracing, metrics and profiling wrap the remaining chain
	// 5. Rate limiting, then ErrorCapture closest to the handlers
	engine.Use(logger.Recovery())
	engine.Use(reporter.Middleware())
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.SecureWithConfig(securityConfig(cfg)))
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(providers.Meter))
	if providers.Profiler.IsEnabled() {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(reporter.ErrorCapture())

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}
	bearer := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Check)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, bearer),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		Bearer:   bearer,
		Optional: middleware.OptionalJWTAuthMiddleware(jwtConfig),
		Admin:    middleware.RequireAdmin(),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.AuthRateLimit = middleware.AuthRateLimit(authLimiter)
	}

	api := router.NewRouter(engine, router.WithAPIVersion("v1"))
	groups := router.APIGroups(router.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService),
		User:        handler.NewUserHandler(userService),
		Category:    handler.NewCategoryHandler(categoryService),
		Post:        handler.NewPostHandler(postService),
		Marketplace: handler.NewMarketplaceHandler(productService, cartService),
		Report:      handler.NewReportHandler(reportService),
		Admin:       handler.NewAdminHandler(postService, productService),
	}, guards)
	for _, g := range groups {
		api.Register(g)
	}
	api.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// seed creates the default category tree and the admin account when missing
func seed(ctx context.Context, log *zap.Logger, cfg config.BootstrapConfig, categories *taxonomyapp.CategoryService, users *identityapp.UserService) {
	created, err := categories.SeedDefaultCategories(ctx)
	if err != nil {
		log.Fatal("Failed to seed categories", zap.Error(err))
	}
	if created > 0 {
		log.Info("Seeded default categories", zap.Int("count", created))
	}

	if _, err := users.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		log.Warn("Admin account uses the default password, change it before going live",
			zap.String("email", cfg.AdminEmail))
	}
}

// newImageStorage returns S3 presigning when storage is enabled, otherwise
// the local stub
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) commerceapp.ImageStorage {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, product image URLs are unsigned stubs")
		return storage.NewStubObjectStorage()
	}
	s3Storage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify storage bucket", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
	}
	return s3Storage
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}

func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	secCfg := middleware.DefaultSecurityConfig()
	secCfg.HSTSEnabled = cfg.App.IsProduction()
	return secCfg
}
