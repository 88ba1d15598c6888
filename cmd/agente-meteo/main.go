package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"

	"github.com/avaldemar/agente-meteo/internal/agent"
	httpapi "github.com/avaldemar/agente-meteo/internal/api/http"
	"github.com/avaldemar/agente-meteo/internal/cities"
	"github.com/avaldemar/agente-meteo/internal/config"
	"github.com/avaldemar/agente-meteo/internal/format"
	"github.com/avaldemar/agente-meteo/internal/tool"
	"github.com/avaldemar/agente-meteo/internal/trace"
	"github.com/avaldemar/agente-meteo/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// City dataset, loaded once and read-only afterwards.
	index, err := cities.LoadIndex(cfg.CitiesCSVPath)
	if err != nil {
		log.Fatalf("failed to load city dataset: %v", err)
	}
	log.Printf("loaded %d cities from %s", index.Size(), cfg.CitiesCSVPath)

	// Shared HTTP client with an explicit timeout for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	meteo := weather.NewOpenMeteoClient(httpClient, cfg.OpenMeteoBaseURL)
	formatter := format.New(cfg.Thresholds)

	// Trace sinks: JSONL to stdout plus OpenTelemetry spans. The OTel hook
	// is a no-op until a tracer provider is installed globally.
	weatherTool := tool.New(index, meteo, formatter,
		trace.NewLogHook(os.Stdout, true),
		trace.NewOTelHook(otel.Tracer("agente-meteo")),
	)

	var asker httpapi.Asker
	if cfg.OpenAIAPIKey != "" {
		asker = agent.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, weatherTool)
	} else {
		log.Printf("INFO: OPENAI_API_KEY not set; /api/v1/ask disabled")
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "agente-meteo",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agente-meteo",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, weatherTool, asker)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
