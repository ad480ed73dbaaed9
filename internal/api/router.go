package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/acmecorp/identity-service/internal/api/handler"
	"github.com/acmecorp/identity-service/internal/api/middleware"
	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
	"github.com/acmecorp/identity-service/internal/core/service"
	"github.com/acmecorp/identity-service/internal/infrastructure/audit"
	mongostore "github.com/acmecorp/identity-service/internal/infrastructure/db/mongo"
	redisstore "github.com/acmecorp/identity-service/internal/infrastructure/db/redis"
	"github.com/acmecorp/identity-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	client *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	trail *audit.Dispatcher,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	uowFactory := mongostore.NewUnitOfWorkFactory(client, db)
	limiter := redisstore.NewLoginLimiter(rdb, cfg.Limiter.MaxLoginFailures, cfg.Limiter.LoginFailureWindow)
	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := service.NewAuthService(uowFactory, tokenService, hasher, limiter, trail, cfg.Auth.RefreshTokenTTL, log)
	productService := service.NewProductService(uowFactory, log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	authRequired := middleware.Auth(cfg.Auth.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/revoke", authHandler.Revoke, authRequired)
	auth.POST("/revoke-all", authHandler.RevokeAll, authRequired)
	auth.GET("/me", authHandler.Me, authRequired)

	// --- Product routes ---
	products := e.Group("/api/v1/products", authRequired)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
