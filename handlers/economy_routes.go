// handlers/economy_routes.go
package handlers

import (
	"classroom-economy-system/middleware"
	"classroom-economy-system/models"
	"classroom-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupEconomyRoutes wires the facade read models, wallet endpoints, manual
// adjustments and the achievement reward overrides.
func SetupEconomyRoutes(app *fiber.App, economy *services.EconomyService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/students/:id/wallet", func(c *fiber.Ctx) error {
		studentID := c.Params("id")
		if !middleware.HasRole(c, "teacher") && studentID != actor(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your wallet"})
		}
		wallet, err := economy.Ledger.GetWallet(studentID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(wallet)
	})

	secured.Get("/students/:id/transactions", func(c *fiber.Ctx) error {
		studentID := c.Params("id")
		if !middleware.HasRole(c, "teacher") && studentID != actor(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your ledger"})
		}
		limit := c.QueryInt("limit", 50)
		entries, err := economy.Ledger.GetTransactions(studentID, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(entries)
	})

	teacher := secured.Group("/", middleware.RequireTeacher())

	teacher.Get("/students/:id/summary", func(c *fiber.Ctx) error {
		summary, err := economy.Summary(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(summary)
	})

	teacher.Get("/classes/:id/currency", func(c *fiber.Ctx) error {
		data, err := economy.CurrencyData(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(data)
	})

	teacher.Post("/students/:id/adjust", func(c *fiber.Ctx) error {
		var req struct {
			Delta  int64  `json:"delta"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		entry, err := economy.Ledger.Adjust(c.Params("id"), req.Delta, req.Reason, actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	// Achievement reward overrides (per teacher)
	teacher.Get("/achievements/rewards", func(c *fiber.Ctx) error {
		overrides, err := economy.Resolver.ListOverrides(actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(overrides)
	})

	teacher.Get("/achievements/:id/reward", func(c *fiber.Ctx) error {
		tier := models.Tier(c.Query("tier"))
		coins, err := economy.Resolver.Resolve(actor(c), c.Params("id"), tier)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"achievement_id": c.Params("id"), "coins": coins})
	})

	teacher.Put("/achievements/:id/reward", func(c *fiber.Ctx) error {
		var req struct {
			Coins int64 `json:"coins"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		override, err := economy.Resolver.SetOverride(actor(c), c.Params("id"), req.Coins)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(override)
	})

	teacher.Delete("/achievements/:id/reward", func(c *fiber.Ctx) error {
		if err := economy.Resolver.ClearOverride(actor(c), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Override cleared"})
	})
}
