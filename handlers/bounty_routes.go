// handlers/bounty_routes.go
package handlers

import (
	"classroom-economy-system/middleware"
	"classroom-economy-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupBountyRoutes(app *fiber.App, bountyService *services.BountyService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Anyone on the roster can browse bounties
	secured.Get("/bounties", func(c *fiber.Ctx) error {
		classID := c.Query("class_id")
		activeOnly := c.Query("active", "true") != "false"
		bounties, err := bountyService.List(classID, activeOnly)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(bounties)
	})

	secured.Get("/bounties/:id/completions", func(c *fiber.Ctx) error {
		completions, err := bountyService.GetCompletions(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		count := int64(len(completions))
		return c.JSON(fiber.Map{"completions": completions, "count": count})
	})

	teacher := secured.Group("/", middleware.RequireTeacher())

	teacher.Post("/bounties", func(c *fiber.Ctx) error {
		var in services.BountyInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		bounty, err := bountyService.Create(in, actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(bounty)
	})

	teacher.Put("/bounties/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid bounty ID"})
		}
		var upd services.BountyUpdate
		if err := c.BodyParser(&upd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		bounty, err := bountyService.Update(id, upd)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(bounty)
	})

	teacher.Patch("/bounties/:id/toggle", func(c *fiber.Ctx) error {
		bounty, err := bountyService.ToggleActive(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(bounty)
	})

	teacher.Delete("/bounties/:id", func(c *fiber.Ctx) error {
		if err := bountyService.Delete(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Bounty deleted successfully"})
	})

	// Batch completion — per-student results, partial success is normal
	teacher.Post("/bounties/:id/complete", func(c *fiber.Ctx) error {
		var req struct {
			StudentIDs []string `json:"student_ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if len(req.StudentIDs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "student_ids is required"})
		}

		results, err := bountyService.CompleteForStudents(c.Params("id"), req.StudentIDs, actor(c))
		if err != nil {
			return serviceError(c, err)
		}

		succeeded := 0
		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}
		return c.JSON(fiber.Map{
			"results":   results,
			"completed": succeeded,
			"total":     len(results),
		})
	})
}
