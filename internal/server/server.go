// Package server assembles the Fiber application from repositories and config.
package server

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the backing stores and integrations of the API.
type Dependencies struct {
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	Orders   repositories.OrderRepository
	Carts    repositories.CartRepository
	// Publisher may be nil when no broker is configured.
	Publisher services.EventPublisher
	// Registry defaults to a fresh registry.
	Registry *prometheus.Registry
}

// App is the assembled HTTP application.
type App struct {
	Fiber       *fiber.App
	AuthService *services.AuthService
}

// New wires services, handlers and middleware into a Fiber app.
func New(cfg *config.Config, deps Dependencies) *App {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	productService := services.NewProductService(deps.Products)
	reviewService := services.NewReviewService(deps.Products, m)
	authService := services.NewAuthService(deps.Users, cfg.JWTSecret, cfg.JWTExpires)
	orderService := services.NewOrderService(deps.Orders, deps.Products, deps.Publisher, m)
	cartService := services.NewCartService(deps.Carts, m)

	productHandler := handlers.NewProductHandler(productService, reviewService)
	authHandler := handlers.NewAuthHandler(authService, time.Duration(cfg.CookieExpiresDays)*24*time.Hour, !cfg.IsDevelopment())
	orderHandler := handlers.NewOrderHandler(orderService)
	cartHandler := handlers.NewCartHandler(cartService)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:    10 * 1024 * 1024, // inline data-URL images
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics(m))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": deps.Publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	auth := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1, auth)
	authHandler.RegisterRoutes(apiV1, auth)
	orderHandler.RegisterRoutes(apiV1, auth)
	cartHandler.RegisterRoutes(apiV1, auth)

	return &App{Fiber: app, AuthService: authService}
}
