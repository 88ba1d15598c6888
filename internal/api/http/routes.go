package httpapi

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Runner executes the weather tool for a city name.
type Runner interface {
	Run(ctx context.Context, city string) (string, error)
}

// Asker produces a natural-language answer for a free-form weather question.
type Asker interface {
	Answer(ctx context.Context, question string) (string, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. asker may be nil
// when no LLM credentials are configured; the direct tool endpoint still works.
func RegisterRoutes(app *fiber.App, runner Runner, asker Asker) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		var q cityQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		answer, err := runner.Run(c.Context(), q.City)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to answer weather query")
		}

		return c.JSON(fiber.Map{
			"city":   q.City,
			"answer": answer,
		})
	})

	v1.Post("/ask", func(c *fiber.Ctx) error {
		if asker == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "agent is not configured; set OPENAI_API_KEY")
		}

		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "question is required")
		}

		answer, err := asker.Answer(c.Context(), req.Question)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to answer question")
		}

		return c.JSON(fiber.Map{
			"answer": answer,
		})
	})
}

// cityQuery holds the query parameter identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

// askRequest is the body of the natural-language endpoint.
type askRequest struct {
	Question string `json:"question" validate:"required"`
}
