package routes

import (
	"daily-steps-service/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app. deltaController is
// nil when the step source does not accept ingestion.
func Register(app *fiber.App, stepController controller.StepController, deltaController controller.DeltaController) {
	steps := app.Group("/steps")
	steps.Get("/", stepController.GetSteps)
	steps.Post("/sort/toggle", stepController.ToggleSort)
	steps.Post("/refresh", stepController.Refresh)

	if deltaController != nil {
		steps.Post("/deltas", deltaController.CreateDelta)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
