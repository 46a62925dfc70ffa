package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/bootstrap"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	deps, cleanup, err := newDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	app := server.New(cfg, deps)

	if _, err := bootstrap.EnsureAdmin(ctx, deps.Users, app.AuthService, bootstrap.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("starting server")
		serverErr <- app.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

// newDependencies opens the configured stores and integrations. The
// returned cleanup closes whatever was opened.
func newDependencies(ctx context.Context, cfg *config.Config) (server.Dependencies, func(), error) {
	var (
		deps    server.Dependencies
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseDriver == "memory" {
		deps.Products = repositories.NewInMemoryProductRepository()
		deps.Users = repositories.NewInMemoryUserRepository()
		deps.Orders = repositories.NewInMemoryOrderRepository()
		seedProducts(ctx, deps.Products)
	} else {
		db, err := openDatabase(cfg)
		if err != nil {
			return deps, cleanup, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		deps.Products = repositories.NewGORMProductRepository(db)
		deps.Users = repositories.NewGORMUserRepository(db)
		deps.Orders = repositories.NewGORMOrderRepository(db)
	}

	deps.Carts = repositories.NewInMemoryCartRepository()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, carts are kept in memory")
			rdb.Close()
		} else {
			closers = append(closers, func() { rdb.Close() })
			deps.Carts = repositories.NewRedisCartRepository(rdb, cfg.CartTTL)
			log.Info().Str("addr", cfg.RedisAddr).Msg("carts stored in redis")
		}
	}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
		} else {
			closers = append(closers, func() {
				if err := mqClient.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close RabbitMQ client")
				}
			})
			deps.Publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(rabbitmq.HandleOrderMessage); err != nil {
				log.Error().Err(err).Msg("failed to start RabbitMQ consumer")
			}
		}
	}

	return deps, cleanup, nil
}

// openDatabase connects with the configured driver and migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("database ready")
	return db, nil
}

// seedProducts populates an empty in-memory catalog with demo data.
func seedProducts(ctx context.Context, repo repositories.ProductRepository) {
	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: 1200.00, Category: models.CategoryLaptops, Seller: "Storefront", Stock: 10},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Category: models.CategoryAccessories, Seller: "Storefront", Stock: 25},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Category: models.CategoryAccessories, Seller: "Storefront", Stock: 50},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			log.Error().Err(err).Str("name", products[i].Name).Msg("error seeding product")
			continue
		}
		log.Debug().Str("product_id", products[i].ID).Str("name", products[i].Name).Msg("seeded product")
	}
}
