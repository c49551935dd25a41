// @title Fornecedores API
// @version 1.0
// @description CRUD of fornecedores with registration, login and claim based authorization.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"fornecedores/docs"
	"fornecedores/internal/config"
	"fornecedores/internal/database"
	"fornecedores/internal/handlers"
	"fornecedores/internal/middleware"
	"fornecedores/internal/models"
	"fornecedores/internal/repositories"
	"fornecedores/internal/services"
	"fornecedores/internal/validation"
	"fornecedores/pkg/rabbitmq"
)

// NewApp wires repositories, services and handlers into a Fiber app.
// publisher may be nil, in which case no fornecedor events are emitted.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *services.IdentityService, error) {
	if db == nil {
		return nil, nil, fmt.Errorf("database connection is required")
	}

	// --- Initialize Repositories ---
	fornecedorRepo := repositories.NewGORMFornecedorRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Initialize Services ---
	identityService := services.NewIdentityService(userRepo, services.IdentityOptionsFromConfig(cfg))
	fornecedorService := services.NewFornecedorService(fornecedorRepo, publisher)

	// --- Initialize Handlers ---
	validator := validation.New()
	identityHandler := handlers.NewIdentityHandler(identityService, validator)
	fornecedorHandler := handlers.NewFornecedorHandler(fornecedorService, validator)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "fornecedores",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if cfg.IsDevelopment() {
		docs.SwaggerInfo.Title = "Fornecedores API"
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// --- API Routes ---
	identityHandler.RegisterRoutes(app)
	fornecedorHandler.RegisterRoutes(app, middleware.AuthRequired(identityService), handlers.DefaultPolicies())

	return app, identityService, nil
}

// logFornecedorEvent writes the audit line of a consumed fornecedor event.
func logFornecedorEvent(msg amqp.Delivery) error {
	var event models.FornecedorEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("invalid fornecedor event: %w", err)
	}
	log.Printf("Fornecedor event %s (Tag: %d): id=%s nome=%q ativo=%t at %s",
		event.Event, msg.DeliveryTag, event.ID, event.Nome, event.Ativo, event.OccurredAt.Format(time.RFC3339))
	return nil
}

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialize Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: services.FornecedorExchange})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeEvents(logFornecedorEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, fornecedor events are disabled")
	}

	app, _, err := NewApp(cfg, db, publisher)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (%s)", cfg.AppPort, cfg.AppEnv)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server gracefully stopped")
}
