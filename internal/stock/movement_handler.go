package stock

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMovementRequest struct {
	ArticleID   uint   `json:"article_id"`
	Type        string `json:"type"` // IN, OUT oder ADJUSTMENT
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	PerformedBy string `json:"performed_by"`
}

type MovementResponse struct {
	ID          uint   `json:"id"`
	ArticleID   uint   `json:"article_id"`
	ArticleName string `json:"article_name"`
	SKU         string `json:"sku"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	PerformedBy string `json:"performed_by"`
	OrderID     *uint  `json:"order_id"`
	OrderItemID *uint  `json:"order_item_id"`
	CreatedAt   string `json:"created_at"`
}

// POST /api/stock-movements
// Manuelle Bestandsbewegung (außerhalb des Auftragsflusses), z.B. eine
// Direktentnahme oder eine Einzelkorrektur.
func CreateMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		if body.ArticleID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "article_id ist erforderlich")
		}
		if body.PerformedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "performed_by ist erforderlich")
		}

		mType := models.MovementType(body.Type)
		switch mType {
		case models.MovementIn, models.MovementOut, models.MovementAdjustment:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "type muss IN, OUT oder ADJUSTMENT sein")
		}
		if mType == models.MovementIn && body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "IN-Bewegung braucht eine positive Menge")
		}
		if mType == models.MovementOut && body.Quantity >= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "OUT-Bewegung braucht eine negative Menge")
		}
		if mType == models.MovementAdjustment && body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ADJUSTMENT trägt den gezählten Bestand, negativ ist nicht zulässig")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		article, err := LockArticle(tx, body.ArticleID)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}

		movement := models.StockMovement{
			ArticleID:   article.ID,
			Type:        mType,
			Quantity:    body.Quantity,
			Reason:      body.Reason,
			PerformedBy: body.PerformedBy,
		}
		if err := Record(tx, article, &movement); err != nil {
			tx.Rollback()
			if err == ErrNegativeStock {
				return fiber.NewError(fiber.StatusConflict, "Nicht genügend Bestand für diese Bewegung")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Bewegung konnte nicht gespeichert werden")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.PerformedBy,
			EntityType:  "stock_movement",
			EntityID:    movement.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Manuelle Bewegung %s: %s (%+d)", body.Type, article.Name, body.Quantity),
			After:       movement,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":       true,
			"movement_id":   movement.ID,
			"current_stock": article.CurrentStock,
		})
	}
}

// GET /api/stock-movements?article_id=&type=&order_id=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockMovement{}).Preload("Article")

		if aidStr := c.Query("article_id"); aidStr != "" {
			var aid uint
			if _, err := fmt.Sscan(aidStr, &aid); err == nil && aid > 0 {
				dbq = dbq.Where("article_id = ?", aid)
			}
		}
		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}
		if oidStr := c.Query("order_id"); oidStr != "" {
			var oid uint
			if _, err := fmt.Sscan(oidStr, &oid); err == nil && oid > 0 {
				dbq = dbq.Where("order_id = ?", oid)
			}
		}

		var movements []models.StockMovement
		if err := dbq.Order("created_at DESC, id DESC").Limit(1000).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bewegungen konnten nicht geladen werden")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:          m.ID,
				ArticleID:   m.ArticleID,
				ArticleName: m.Article.Name,
				SKU:         m.Article.SKU,
				Type:        string(m.Type),
				Quantity:    m.Quantity,
				Reason:      m.Reason,
				PerformedBy: m.PerformedBy,
				OrderID:     m.OrderID,
				OrderItemID: m.OrderItemID,
				CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/stock-reconciliation
// Prüfroutine gegen Zähler-Drift: spielt das Bestandsbuch je Artikel ab und
// vergleicht mit dem materialisierten CurrentStock. Korrigiert nichts.
func ReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var articles []models.Article
		if err := database.DB.Find(&articles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnten nicht geladen werden")
		}

		type DriftRow struct {
			ArticleID     uint   `json:"article_id"`
			SKU           string `json:"sku"`
			ArticleName   string `json:"article_name"`
			CurrentStock  int    `json:"current_stock"`
			ExpectedStock int    `json:"expected_stock"`
			Drift         int    `json:"drift"`
		}

		drifts := make([]DriftRow, 0)
		for _, article := range articles {
			var movements []models.StockMovement
			if err := database.DB.
				Where("article_id = ?", article.ID).
				Order("created_at ASC, id ASC").
				Find(&movements).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Bewegungen konnten nicht geladen werden")
			}

			expected := ReplayMovements(movements)
			if expected != article.CurrentStock {
				drifts = append(drifts, DriftRow{
					ArticleID:     article.ID,
					SKU:           article.SKU,
					ArticleName:   article.Name,
					CurrentStock:  article.CurrentStock,
					ExpectedStock: expected,
					Drift:         article.CurrentStock - expected,
				})
			}
		}

		return c.JSON(fiber.Map{
			"checked": len(articles),
			"drifts":  drifts,
		})
	}
}
