// handlers/goal_routes.go
package handlers

import (
	"errors"

	"classroom-economy-system/middleware"
	"classroom-economy-system/models"
	"classroom-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGoalRoutes(app *fiber.App, goalService *services.GoalService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/goals", func(c *fiber.Ctx) error {
		studentID := c.Query("student_id")
		if !middleware.HasRole(c, "teacher") {
			// students only see their own goals
			studentID = actor(c)
		}
		goals, err := goalService.ActiveGoals(studentID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(goals)
	})

	// Students create goals for themselves; teachers for any roster student.
	secured.Post("/goals", func(c *fiber.Ctx) error {
		var in services.GoalInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		role := models.CreatorStudent
		if middleware.HasRole(c, "teacher") {
			role = models.CreatorTeacher
		} else {
			in.StudentID = actor(c)
		}

		goal, err := goalService.CreateForStudent(in, role, actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(goal)
	})

	teacher := secured.Group("/", middleware.RequireTeacher())

	teacher.Get("/goals/history", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		goals, err := goalService.HistoryGoals(limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(goals)
	})

	teacher.Post("/goals/:id/complete", func(c *fiber.Ctx) error {
		goal, err := goalService.Complete(c.Params("id"), actor(c))
		if err != nil {
			// The goal is completed but the coins never landed; report it as a
			// warning on an otherwise successful response so the teacher can
			// re-credit manually.
			if errors.Is(err, services.ErrRewardDeliveryFailed) {
				return c.JSON(fiber.Map{"goal": goal, "warning": err.Error()})
			}
			return serviceError(c, err)
		}
		return c.JSON(goal)
	})

	teacher.Post("/goals/:id/reject", func(c *fiber.Ctx) error {
		goal, err := goalService.Reject(c.Params("id"), actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(goal)
	})
}
