// Package main provides the entry point for the lab extraction and risk API server
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Sora-Andrea/predictive-risk-app/internal/api"
	"github.com/Sora-Andrea/predictive-risk-app/internal/config"
	"github.com/Sora-Andrea/predictive-risk-app/internal/pipeline"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/logging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ocrengine"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/rasterize"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ratelimit"
)

func main() {
	cfg := config.Load()

	if err := logging.SetupLogger(cfg.Logging); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Wire the extraction pipeline
	engine := ocrengine.NewTesseract(cfg.Processing.OCRConfig())
	rasterizer := rasterize.NewPoppler()
	rasterizer.MaxPages = cfg.Processing.PDFMaxPages
	processor := pipeline.New(engine, rasterizer, cfg.Processing)

	// Initialize Fiber app with configuration
	app := fiber.New(fiber.Config{
		AppName:               "Predictive Risk API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             int(cfg.Server.MaxUploadSize) + 1024*1024,
		DisableStartupMessage: false,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "UTC",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Initialize handlers
	h := api.NewHandlers(processor, cfg.Server.MaxUploadSize)
	if cfg.Server.UploadMinInterval > 0 {
		h.WithLimiter(ratelimit.NewUploadLimiter(cfg.Server.UploadMinInterval))
	}

	// API Routes
	setupRoutes(app, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting predictive risk server on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all API routes
func setupRoutes(app *fiber.App, h *api.Handlers) {
	// Health check
	app.Get("/health", h.Health)

	// API v1 routes
	v1 := app.Group("/api/v1")

	// Lab report extraction
	labs := v1.Group("/labs")
	labs.Post("/extract", h.ExtractLabs)

	// Risk scoring
	v1.Post("/predict", h.Predict)

	// Root redirect
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Predictive Risk API",
			"version": "0.1.0",
			"endpoints": []string{
				"GET /health",
				"POST /api/v1/labs/extract",
				"POST /api/v1/predict",
			},
		})
	})
}
