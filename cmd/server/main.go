package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/localnerve/ductapedb/internal/config"
	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/handlers"
	"github.com/localnerve/ductapedb/internal/logger"
	"github.com/localnerve/ductapedb/internal/metrics"
	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/types"

	_ "github.com/localnerve/ductapedb/docs/api" // Swagger docs
)

// @title ductapedb query API
// @version 1.0.0
// @description Read-only query gateway over the comparative genomics and phenomics store

// @contact.name API Support
// @contact.url https://github.com/localnerve/ductapedb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	var envFile string
	flag.StringVar(&envFile, "f", ".env", "path to the .env file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	// fiberprometheus serves the default registry, so store counters
	// registered there show up on /metrics as well.
	store := services.New(db, cfg, log, metrics.New(prometheus.DefaultRegisterer))

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		AppName:      "ductapedb",
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prom := fiberprometheus.New("ductapedb")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	handlers.Register(app.Group("/api"), store)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	log.Info("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", "error", err)
	}

	log.Info("server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	body := types.CustomError{
		Code:    fiber.StatusInternalServerError,
		Message: err.Error(),
		Type:    "unknown",
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		body.Code = fe.Code
		body.Message = fe.Message
		body.Type = "http"
	}

	return c.Status(body.Code).JSON(body)
}
