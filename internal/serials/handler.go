package serials

import (
	"fmt"
	"strings"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"
	"lager-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SerialResponse struct {
	ID          uint   `json:"id"`
	SerialNo    string `json:"serial_no"`
	ArticleID   uint   `json:"article_id"`
	ArticleSKU  string `json:"article_sku"`
	ArticleName string `json:"article_name"`
	Status      string `json:"status"`
	IsUsed      bool   `json:"is_used"`
	OrderItemID *uint  `json:"order_item_id"`
}

func toSerialResponse(s *models.SerialNumber) SerialResponse {
	return SerialResponse{
		ID:          s.ID,
		SerialNo:    s.SerialNo,
		ArticleID:   s.ArticleID,
		ArticleSKU:  s.Article.SKU,
		ArticleName: s.Article.Name,
		Status:      string(s.Status),
		IsUsed:      s.IsUsed,
		OrderItemID: s.OrderItemID,
	}
}

// GET /api/serials?article_id=&status=&q=
func ListSerialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.SerialNumber{}).Preload("Article")

		if articleID := c.Query("article_id"); articleID != "" {
			dbq = dbq.Where("article_id = ?", articleID)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if q := c.Query("q"); q != "" {
			dbq = dbq.Where("serial_no ILIKE ?", "%"+q+"%")
		}

		var list []models.SerialNumber
		if err := dbq.Order("created_at DESC").Limit(500).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seriennummern konnten nicht geladen werden")
		}

		resp := make([]SerialResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toSerialResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

type CreateSerialRequest struct {
	ArticleID uint   `json:"article_id"`
	SerialNo  string `json:"serial_no"`
	IsUsed    bool   `json:"is_used"`
	Actor     string `json:"actor"`
}

// POST /api/serials
// Nacherfassung eines Einzelgeräts außerhalb des Wareneingangs, z.B. bei
// Altbestand. Erhöht den Bestand des Artikels um 1 über das Bestandsbuch.
func CreateSerialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSerialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		body.SerialNo = strings.TrimSpace(body.SerialNo)
		if body.ArticleID == 0 || body.SerialNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "article_id und serial_no sind erforderlich")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		article, err := stock.LockArticle(tx, body.ArticleID)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}
		if !article.RequiresSerialNumber() {
			tx.Rollback()
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Artikel %s ist nicht seriennummernpflichtig", article.SKU))
		}

		var dup int64
		tx.Model(&models.SerialNumber{}).Where("serial_no = ?", body.SerialNo).Count(&dup)
		if dup > 0 {
			tx.Rollback()
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Seriennummer %s ist bereits erfasst", body.SerialNo))
		}

		serial := models.SerialNumber{
			SerialNo:  body.SerialNo,
			ArticleID: article.ID,
			Status:    models.SerialInStock,
			IsUsed:    body.IsUsed,
		}
		if err := tx.Create(&serial).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Seriennummer konnte nicht angelegt werden")
		}

		if err := stock.Record(tx, article, &models.StockMovement{
			ArticleID:   article.ID,
			Type:        models.MovementIn,
			Quantity:    1,
			Reason:      fmt.Sprintf("Nacherfassung Seriennummer %s", serial.SerialNo),
			PerformedBy: body.Actor,
		}); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bestandsbuchung fehlgeschlagen")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "serial_number",
			EntityID:    serial.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Seriennummer %s für %s nacherfasst", serial.SerialNo, article.SKU),
			After:       serial,
		})

		return c.Status(fiber.StatusCreated).JSON(toSerialResponse(&serial))
	}
}

type UpdateSerialStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// manuell setzbare Zielzustände; RESERVED/DEPLOYED sind der
// Auftragsabwicklung vorbehalten
func manualStatusAllowed(s models.SerialStatus) bool {
	switch s {
	case models.SerialInStock, models.SerialDefective, models.SerialReturned, models.SerialDisposed:
		return true
	}
	return false
}

// PATCH /api/serials/:id/status
// Gerät, das das Lager physisch verlässt (DEFECTIVE ausgenommen), wird
// zusätzlich ausgebucht; Rückkehr auf IN_STOCK bucht wieder ein.
func UpdateSerialStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSerialStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		target := models.SerialStatus(body.Status)
		if !manualStatusAllowed(target) {
			return fiber.NewError(fiber.StatusBadRequest,
				"status muss IN_STOCK, DEFECTIVE, RETURNED oder DISPOSED sein")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		var serial models.SerialNumber
		if err := tx.Preload("Article").First(&serial, "id = ?", c.Params("id")).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusNotFound, "Seriennummer nicht gefunden")
		}
		if serial.Status == models.SerialDeployed || serial.Status == models.SerialReserved {
			tx.Rollback()
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Seriennummer %s ist einem Auftrag zugeordnet und kann nicht manuell umgesetzt werden", serial.SerialNo))
		}
		if serial.Status == target {
			tx.Rollback()
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Seriennummer %s hat bereits den Status %s", serial.SerialNo, target))
		}
		before := serial

		// Lagernd ↔ nicht lagernd entscheidet über die Bestandsbuchung
		wasInStock := serial.Status == models.SerialInStock
		willBeInStock := target == models.SerialInStock

		if wasInStock != willBeInStock {
			article, err := stock.LockArticle(tx, serial.ArticleID)
			if err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht gesperrt werden")
			}
			movement := models.StockMovement{
				ArticleID:   article.ID,
				Type:        models.MovementOut,
				Quantity:    -1,
				Reason:      fmt.Sprintf("Seriennummer %s: %s", serial.SerialNo, target),
				PerformedBy: body.Actor,
			}
			if willBeInStock {
				movement.Type = models.MovementIn
				movement.Quantity = 1
			}
			if err := stock.Record(tx, article, &movement); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusConflict, "Bestandsbuchung fehlgeschlagen: Bestand würde negativ")
			}
		}

		if err := tx.Model(&models.SerialNumber{}).Where("id = ?", serial.ID).
			Updates(map[string]interface{}{"status": target, "order_item_id": gorm.Expr("NULL")}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Status konnte nicht gesetzt werden")
		}
		serial.Status = target
		serial.OrderItemID = nil

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "serial_number",
			EntityID:    serial.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Seriennummer %s: %s → %s", serial.SerialNo, before.Status, target),
			Before:      before,
			After:       serial,
		})

		return c.JSON(toSerialResponse(&serial))
	}
}
