package inventur

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"
	"lager-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type CreateInventurRequest struct {
	Name      string `json:"name"`
	StartedBy string `json:"started_by"`
	Notes     string `json:"notes"`
}

type InventurItemResponse struct {
	ID          uint    `json:"id"`
	ArticleID   uint    `json:"article_id"`
	SKU         string  `json:"sku"`
	ArticleName string  `json:"article_name"`
	ExpectedQty int     `json:"expected_qty"`
	CountedQty  *int    `json:"counted_qty"`
	Difference  int     `json:"difference"`
	Checked     bool    `json:"checked"`
	CheckedBy   string  `json:"checked_by,omitempty"`
	CheckedAt   *string `json:"checked_at"`
}

type InventurResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	StartedBy   string                 `json:"started_by"`
	Status      string                 `json:"status"`
	Notes       string                 `json:"notes,omitempty"`
	CompletedAt *string                `json:"completed_at"`
	CreatedAt   string                 `json:"created_at"`
	Items       []InventurItemResponse `json:"items,omitempty"`
}

func toInventurResponse(inv *models.Inventur, withItems bool) InventurResponse {
	resp := InventurResponse{
		ID:        inv.ID,
		Name:      inv.Name,
		StartedBy: inv.StartedBy,
		Status:    string(inv.Status),
		Notes:     inv.Notes,
		CreatedAt: inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if inv.CompletedAt != nil {
		formatted := inv.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &formatted
	}
	if !withItems {
		return resp
	}
	resp.Items = make([]InventurItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		it := &inv.Items[i]
		row := InventurItemResponse{
			ID:          it.ID,
			ArticleID:   it.ArticleID,
			SKU:         it.Article.SKU,
			ArticleName: it.Article.Name,
			ExpectedQty: it.ExpectedQty,
			CountedQty:  it.CountedQty,
			Difference:  it.Difference,
			Checked:     it.Checked,
			CheckedBy:   it.CheckedBy,
		}
		if it.CheckedAt != nil {
			formatted := it.CheckedAt.Format("2006-01-02 15:04:05")
			row.CheckedAt = &formatted
		}
		resp.Items = append(resp.Items, row)
	}
	return resp
}

// POST /api/inventur
// Startet eine Zählsitzung und friert den aktuellen Bestand aller aktiven
// Artikel als Erwartungswerte ein.
func CreateInventurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInventurRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Name == "" || body.StartedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name und started_by sind erforderlich")
		}

		// Es darf immer nur eine laufende Inventur geben
		var running int64
		database.DB.Model(&models.Inventur{}).
			Where("status = ?", models.InventurInProgress).Count(&running)
		if running > 0 {
			return fiber.NewError(fiber.StatusConflict, "Es läuft bereits eine Inventur")
		}

		var articles []models.Article
		if err := database.DB.Where("active = ?", true).Order("sku ASC").Find(&articles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnten nicht geladen werden")
		}

		inv := models.Inventur{
			Name:      body.Name,
			StartedBy: body.StartedBy,
			Status:    models.InventurInProgress,
			Notes:     body.Notes,
		}
		for _, article := range articles {
			inv.Items = append(inv.Items, models.InventurItem{
				ArticleID:   article.ID,
				ExpectedQty: article.CurrentStock,
			})
		}

		if err := database.DB.Create(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventur konnte nicht angelegt werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.StartedBy,
			EntityType:  "inventur",
			EntityID:    inv.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Inventur %q gestartet (%d Positionen)", inv.Name, len(inv.Items)),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":     true,
			"inventur_id": inv.ID,
			"item_count":  len(inv.Items),
		})
	}
}

// GET /api/inventur
func ListInventurenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sessions []models.Inventur
		if err := database.DB.Order("created_at DESC").Find(&sessions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventuren konnten nicht geladen werden")
		}

		resp := make([]InventurResponse, 0, len(sessions))
		for i := range sessions {
			resp = append(resp, toInventurResponse(&sessions[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/inventur/:id
func GetInventurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inv models.Inventur
		if err := database.DB.Preload("Items.Article").
			First(&inv, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventur nicht gefunden")
		}
		return c.JSON(toInventurResponse(&inv, true))
	}
}

type CheckItemRequest struct {
	CountedQty int    `json:"counted_qty"`
	CheckedBy  string `json:"checked_by"`
}

// PUT /api/inventur/:id/items/:itemID
// Erfasst das Zählergebnis einer Position. Nur solange die Sitzung läuft.
func CheckItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CheckItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.CheckedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "checked_by ist erforderlich")
		}
		if body.CountedQty < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "counted_qty darf nicht negativ sein")
		}

		var inv models.Inventur
		if err := database.DB.First(&inv, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventur nicht gefunden")
		}
		if inv.Status != models.InventurInProgress {
			return fiber.NewError(fiber.StatusConflict, "Inventur ist nicht mehr in Bearbeitung")
		}

		var item models.InventurItem
		if err := database.DB.First(&item, "id = ? AND inventur_id = ?", c.Params("itemID"), inv.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Zählposition nicht gefunden")
		}

		now := nowPtr()
		counted := body.CountedQty
		item.CountedQty = &counted
		item.Difference = Diff(item.ExpectedQty, counted)
		item.Checked = true
		item.CheckedBy = body.CheckedBy
		item.CheckedAt = now

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zählposition konnte nicht gespeichert werden")
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"difference": item.Difference,
		})
	}
}

type ApplyRequest struct {
	PerformedBy string `json:"performed_by"`
}

// POST /api/inventur/:id/apply
// Schließt die Inventur ab: je geprüfter Position mit Differenz eine
// ADJUSTMENT-Bewegung (trägt den gezählten Wert), Bestand wird auf den
// Zählwert gesetzt — nicht aufaddiert. Alles in einer Transaktion.
func ApplyCorrectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.PerformedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "performed_by ist erforderlich")
		}

		var inv models.Inventur
		if err := database.DB.Preload("Items").
			First(&inv, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventur nicht gefunden")
		}
		if inv.Status != models.InventurInProgress {
			return fiber.NewError(fiber.StatusConflict, "Inventur ist nicht mehr in Bearbeitung")
		}

		corrections := ItemsNeedingCorrection(inv.Items)

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		for _, item := range corrections {
			article, err := stock.LockArticle(tx, item.ArticleID)
			if err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht gesperrt werden")
			}

			movement := models.StockMovement{
				ArticleID:   article.ID,
				Type:        models.MovementAdjustment,
				Quantity:    *item.CountedQty, // Absolutwert, nicht die Differenz
				Reason:      fmt.Sprintf("Inventur %q (Differenz %+d)", inv.Name, item.Difference),
				PerformedBy: body.PerformedBy,
			}
			if err := stock.Record(tx, article, &movement); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Korrektur konnte nicht gebucht werden")
			}
		}

		now := nowPtr()
		if err := tx.Model(&models.Inventur{}).Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"status":       models.InventurCompleted,
				"completed_at": now,
			}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Inventur konnte nicht abgeschlossen werden")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.PerformedBy,
			EntityType:  "inventur",
			EntityID:    inv.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Inventur %q abgeschlossen, %d Korrekturen gebucht", inv.Name, len(corrections)),
		})

		return c.JSON(fiber.Map{
			"success":     true,
			"corrections": len(corrections),
		})
	}
}

// POST /api/inventur/:id/cancel
func CancelInventurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		var inv models.Inventur
		if err := database.DB.First(&inv, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventur nicht gefunden")
		}
		if inv.Status != models.InventurInProgress {
			return fiber.NewError(fiber.StatusConflict, "Inventur ist nicht mehr in Bearbeitung")
		}

		if err := database.DB.Model(&models.Inventur{}).Where("id = ?", inv.ID).
			Update("status", models.InventurCancelled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventur konnte nicht abgebrochen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.PerformedBy,
			EntityType:  "inventur",
			EntityID:    inv.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Inventur %q abgebrochen", inv.Name),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
