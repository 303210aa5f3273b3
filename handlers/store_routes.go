// handlers/store_routes.go
package handlers

import (
	"classroom-economy-system/middleware"
	"classroom-economy-system/services"
	"classroom-economy-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupStoreRoutes(app *fiber.App, storeService *services.StoreService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/store/items", func(c *fiber.Ctx) error {
		activeOnly := c.Query("active", "true") != "false"
		items, err := storeService.ListItems(activeOnly)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	})

	// Students request; teachers review.
	secured.Post("/store/purchases", func(c *fiber.Ctx) error {
		var req struct {
			ItemID    string `json:"item_id"`
			StudentID string `json:"student_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		// Students buy for themselves; a teacher may file on a student's behalf.
		studentID := actor(c)
		if req.StudentID != "" && middleware.HasRole(c, "teacher") {
			studentID = req.StudentID
		}

		purchase, err := storeService.RequestPurchase(studentID, req.ItemID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(purchase)
	})

	secured.Get("/store/purchases/mine", func(c *fiber.Ctx) error {
		purchases, err := storeService.StudentPurchases(actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchases)
	})

	teacher := secured.Group("/", middleware.RequireTeacher())

	teacher.Post("/store/items", func(c *fiber.Ctx) error {
		var in services.StoreItemInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		item, err := storeService.CreateItem(in, actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	teacher.Put("/store/items/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
		}
		var upd services.StoreItemUpdate
		if err := c.BodyParser(&upd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		item, err := storeService.UpdateItem(id, upd)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	})

	teacher.Patch("/store/items/:id/toggle", func(c *fiber.Ctx) error {
		item, err := storeService.ToggleItemActive(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	})

	teacher.Delete("/store/items/:id", func(c *fiber.Ctx) error {
		if err := storeService.DeleteItem(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Item deleted successfully"})
	})

	// Icon upload → R2, keyed by item name slug
	teacher.Post("/store/items/:id/icon", func(c *fiber.Ctx) error {
		item, err := storeService.GetItem(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}

		fileHeader, err := c.FormFile("icon")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
		}

		if !utils.ValidIconExt(fileHeader.Filename) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported icon type"})
		}
		iconURL, err := utils.UploadItemIcon(fileHeader, item.Name, item.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload icon"})
		}

		updated, err := storeService.UpdateItem(item.ID, services.StoreItemUpdate{IconURL: &iconURL})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	})

	teacher.Get("/store/purchases/pending", func(c *fiber.Ctx) error {
		purchases, err := storeService.PendingPurchases()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchases)
	})

	teacher.Get("/store/purchases/history", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		purchases, err := storeService.PurchaseHistory(limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchases)
	})

	teacher.Post("/store/purchases/:id/approve", func(c *fiber.Ctx) error {
		purchase, err := storeService.Approve(c.Params("id"), actor(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchase)
	})

	teacher.Post("/store/purchases/:id/reject", func(c *fiber.Ctx) error {
		var req struct {
			Reason string `json:"reason"`
		}
		_ = c.BodyParser(&req) // reason is optional
		purchase, err := storeService.Reject(c.Params("id"), actor(c), req.Reason)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchase)
	})
}
