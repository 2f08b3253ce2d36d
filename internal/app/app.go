// Package app wires the database, repositories, services, handlers and the
// optional RabbitMQ client into one fiber application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cartapi/internal/config"
	"cartapi/internal/database"
	"cartapi/internal/handlers"
	"cartapi/internal/middleware"
	"cartapi/internal/models"
	"cartapi/internal/repositories"
	"cartapi/internal/services"
	"cartapi/internal/validation"
	"cartapi/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// App is a ready to serve cart API.
type App struct {
	Fiber *fiber.App
	DB    *gorm.DB
	MQ    *rabbitmq.Client // nil when RABBITMQ_URL is empty
}

// New opens and migrates the database, connects to RabbitMQ when configured
// and registers every route.
func New(cfg config.Config) (*App, error) {
	db, err := database.Open(context.Background(), cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db}

	if err := database.Migrate(db); err != nil {
		a.Close()
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.MQ = mq
		publisher = mq
	} else {
		log.Println("RABBITMQ_URL not set, cart events are not published")
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartItemRepository(db)
	v := validation.New()

	userService := services.NewUserService(userRepo, v)
	productService := services.NewProductService(productRepo, v)
	cartService := services.NewCartItemService(cartRepo, productRepo, userRepo, v, publisher)

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "cartapi",
		ErrorHandler: middleware.ErrorHandler,
	})
	middleware.Register(a.Fiber)

	api := a.Fiber.Group("/api")
	handlers.NewUserHandler(userService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewCartItemHandler(cartService).RegisterRoutes(api)

	a.Fiber.Get("/health", a.handleHealth)

	return a, nil
}

type health struct {
	Database string `json:"database"`
	RabbitMQ string `json:"rabbitmq"`
	Time     string `json:"time"`
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	h := health{Database: "up", RabbitMQ: "disabled", Time: time.Now().UTC().Format(time.RFC3339)}
	status := fiber.StatusOK

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		h.Database = "down"
		status = fiber.StatusServiceUnavailable
	}
	if a.MQ != nil {
		h.RabbitMQ = "up"
		if err := a.MQ.Ping(); err != nil {
			h.RabbitMQ = "down"
			status = fiber.StatusServiceUnavailable
		}
	}

	message := "healthy"
	if status != fiber.StatusOK {
		message = "unhealthy"
	}
	return c.Status(status).JSON(models.APIResponse{
		Status:  status,
		Success: status == fiber.StatusOK,
		Message: message,
		Data:    h,
	})
}

// StartConsumer logs every cart event read back from the queue. It does
// nothing when RabbitMQ is not configured.
func (a *App) StartConsumer() error {
	if a.MQ == nil {
		return nil
	}
	log.Println("Starting RabbitMQ consumer for cart events...")
	return a.MQ.ConsumeCartEvents(rabbitmq.LogCartEvent)
}

// Close releases the broker and database connections. The fiber app is shut
// down by its owner.
func (a *App) Close() error {
	var errs []error
	if a.MQ != nil {
		if err := a.MQ.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
