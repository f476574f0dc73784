package mobilfunk

import (
	"fmt"
	"time"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"
	"lager-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
)

type MilestoneRequest struct {
	Actor       string `json:"actor"`
	IMEI        string `json:"imei"`         // nur bei setup
	PhoneNumber string `json:"phone_number"` // nur bei setup
}

func parseMobilfunkID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Ungültige Mobilfunk-ID")
	}
	return id, nil
}

// Gemeinsames Muster der Meilenstein-Endpunkte: Flag + Bearbeiter +
// Zeitstempel setzen, danach den Bestellstatus abgleichen.
func milestone(description string, apply func(m *models.OrderMobilfunk, body *MilestoneRequest, now time.Time) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseMobilfunkID(c)
		if err != nil {
			return err
		}
		var body MilestoneRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Actor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "actor ist erforderlich")
		}

		var mf models.OrderMobilfunk
		if err := database.DB.First(&mf, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mobilfunk-Auftrag nicht gefunden")
		}

		now := time.Now()
		if err := apply(&mf, &body, now); err != nil {
			return err
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := tx.Save(&mf).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Mobilfunk-Auftrag konnte nicht gespeichert werden")
		}
		if err := orders.SyncOrderStatus(tx, mf.OrderID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Status konnte nicht abgeglichen werden")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order_mobilfunk",
			EntityID:    mf.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Mobilfunk %d: %s", mf.ID, description),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/mobilfunk/:id/ordered
func MarkOrderedHandler() fiber.Handler {
	return milestone("beim Provider bestellt", func(m *models.OrderMobilfunk, body *MilestoneRequest, now time.Time) error {
		if m.Ordered {
			return fiber.NewError(fiber.StatusConflict, "Mobilfunk-Auftrag ist bereits bestellt")
		}
		m.Ordered = true
		m.OrderedBy = body.Actor
		m.OrderedAt = &now
		return nil
	})
}

// POST /api/mobilfunk/:id/received
func MarkReceivedHandler() fiber.Handler {
	return milestone("Lieferung eingegangen", func(m *models.OrderMobilfunk, body *MilestoneRequest, now time.Time) error {
		if !m.Ordered {
			return fiber.NewError(fiber.StatusConflict, "Mobilfunk-Auftrag wurde noch nicht bestellt")
		}
		m.Received = true
		m.ReceivedBy = body.Actor
		m.ReceivedAt = &now
		return nil
	})
}

// POST /api/mobilfunk/:id/setup
// Einrichtung abgeschlossen; IMEI und Rufnummer werden hier zugewiesen.
func MarkSetupDoneHandler() fiber.Handler {
	return milestone("eingerichtet", func(m *models.OrderMobilfunk, body *MilestoneRequest, now time.Time) error {
		if m.Type != models.MobilfunkSimOnly && body.IMEI == "" {
			return fiber.NewError(fiber.StatusBadRequest, "imei ist für Geräte-Aufträge erforderlich")
		}
		if body.PhoneNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone_number ist erforderlich")
		}
		m.SetupDone = true
		m.SetupBy = body.Actor
		m.SetupAt = &now
		m.IMEI = body.IMEI
		m.PhoneNumber = body.PhoneNumber
		return nil
	})
}

// POST /api/mobilfunk/:id/delivered
func MarkDeliveredHandler() fiber.Handler {
	return milestone("an Endnutzer übergeben", func(m *models.OrderMobilfunk, body *MilestoneRequest, now time.Time) error {
		if !m.SetupDone {
			return fiber.NewError(fiber.StatusConflict, "Mobilfunk-Auftrag ist noch nicht eingerichtet")
		}
		m.Delivered = true
		m.DeliveredBy = body.Actor
		m.DeliveredAt = &now
		return nil
	})
}
