package orders

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseItemID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Ungültige Positions-ID")
	}
	return id, nil
}

type PickRequest struct {
	Quantity       int    `json:"quantity"`
	Technician     string `json:"technician"`
	SerialNumberID *uint  `json:"serial_number_id"`
}

// POST /api/order-items/:id/pick
func PickItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}
		var body PickRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Technician == "" {
			return fiber.NewError(fiber.StatusBadRequest, "technician ist erforderlich")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity muss größer 0 sein")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := PickItem(tx, itemID, body.Quantity, body.Technician, body.SerialNumberID); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Technician,
			EntityType:  "order_item",
			EntityID:    itemID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Position %d kommissioniert (%d Stück)", itemID, body.Quantity),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type UnpickRequest struct {
	Actor string `json:"actor"`
}

// POST /api/order-items/:id/unpick
func UnpickItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}
		var body UnpickRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Actor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "actor ist erforderlich")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := UnpickItem(tx, itemID, body.Actor); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order_item",
			EntityID:    itemID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Kommissionierung für Position %d zurückgebucht", itemID),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type ReceiveRequest struct {
	Quantity      int      `json:"quantity"`
	SerialNumbers []string `json:"serial_numbers"`
	IsUsed        bool     `json:"is_used"`
	Actor         string   `json:"actor"`
}

// POST /api/order-items/:id/receive
func ReceiveItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}
		var body ReceiveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Actor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "actor ist erforderlich")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity muss größer 0 sein")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := ReceiveItem(tx, itemID, body.Quantity, body.SerialNumbers, body.IsUsed, body.Actor); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order_item",
			EntityID:    itemID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Wareneingang für Position %d (%d Stück, %d Seriennummern)", itemID, body.Quantity, len(body.SerialNumbers)),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type MarkOrderedRequest struct {
	SupplierID      uint   `json:"supplier_id"`
	SupplierOrderNo string `json:"supplier_order_no"`
	Actor           string `json:"actor"`
}

// POST /api/order-items/:id/mark-ordered
func MarkItemOrderedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}
		var body MarkOrderedRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Actor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "actor ist erforderlich")
		}
		if body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id ist erforderlich")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := MarkItemOrdered(tx, itemID, body.SupplierID, body.SupplierOrderNo, body.Actor); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order_item",
			EntityID:    itemID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Position %d beim Lieferanten %d bestellt (%s)", itemID, body.SupplierID, body.SupplierOrderNo),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type ResolveRequest struct {
	ArticleID uint   `json:"article_id"`
	Actor     string `json:"actor"`
}

// POST /api/order-items/:id/resolve
// Ordnet einer Freitext-Position einen Artikel zu (einmalig).
func ResolveFreetextHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}
		var body ResolveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.ArticleID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "article_id ist erforderlich")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := ResolveFreetextItem(tx, itemID, body.ArticleID); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order_item",
			EntityID:    itemID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Freitext-Position %d dem Artikel %d zugeordnet", itemID, body.ArticleID),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
