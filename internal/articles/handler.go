package articles

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ArticleRequest struct {
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	Unit                string `json:"unit"`
	MinStockLevel       int    `json:"min_stock_level"`
	AvgPurchasePrice    string `json:"avg_purchase_price"` // Dezimalwert als String, z.B. "129.90"
	WarehouseLocationID *uint  `json:"warehouse_location_id"`
	Actor               string `json:"actor"`
}

type ArticleResponse struct {
	ID                  uint   `json:"id"`
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	Unit                string `json:"unit"`
	CurrentStock        int    `json:"current_stock"`
	IncomingStock       int    `json:"incoming_stock"`
	MinStockLevel       int    `json:"min_stock_level"`
	AvgPurchasePrice    string `json:"avg_purchase_price"`
	WarehouseLocationID *uint  `json:"warehouse_location_id"`
	LocationCode        string `json:"location_code,omitempty"`
	Active              bool   `json:"active"`
	BelowMinStock       bool   `json:"below_min_stock"`
}

func toArticleResponse(a *models.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:                  a.ID,
		SKU:                 a.SKU,
		Name:                a.Name,
		Category:            string(a.Category),
		Unit:                a.Unit,
		CurrentStock:        a.CurrentStock,
		IncomingStock:       a.IncomingStock,
		MinStockLevel:       a.MinStockLevel,
		AvgPurchasePrice:    a.AvgPurchasePrice.StringFixed(2),
		WarehouseLocationID: a.WarehouseLocationID,
		Active:              a.Active,
		BelowMinStock:       a.CurrentStock < a.MinStockLevel,
	}
	if a.WarehouseLocation != nil {
		resp.LocationCode = a.WarehouseLocation.Code
	}
	return resp
}

func parseCategory(raw string) (models.ArticleCategory, error) {
	cat := models.ArticleCategory(raw)
	switch cat {
	case models.CategorySerialized, models.CategoryStandard, models.CategoryConsumable:
		return cat, nil
	}
	return "", fmt.Errorf("category muss SERIALIZED, STANDARD oder CONSUMABLE sein")
}

// POST /api/articles
func CreateArticleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ArticleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.SKU == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku und name sind erforderlich")
		}
		category, err := parseCategory(body.Category)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		price := decimal.Zero
		if body.AvgPurchasePrice != "" {
			price, err = decimal.NewFromString(body.AvgPurchasePrice)
			if err != nil || price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "avg_purchase_price ist keine gültige Preisangabe")
			}
		}

		var existing int64
		database.DB.Model(&models.Article{}).Where("sku = ?", body.SKU).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("SKU %s existiert bereits", body.SKU))
		}

		article := models.Article{
			SKU:                 body.SKU,
			Name:                body.Name,
			Category:            category,
			Unit:                body.Unit,
			MinStockLevel:       body.MinStockLevel,
			AvgPurchasePrice:    price,
			WarehouseLocationID: body.WarehouseLocationID,
			Active:              true,
		}
		if err := database.DB.Create(&article).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht angelegt werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "article",
			EntityID:    article.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Artikel angelegt: %s (%s)", article.Name, article.SKU),
			After:       article,
		})

		return c.Status(fiber.StatusCreated).JSON(toArticleResponse(&article))
	}
}

// GET /api/articles?q=&low_stock=true&category=
func ListArticlesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Article{}).Preload("WarehouseLocation").Where("active = ?", true)

		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name ILIKE ? OR sku ILIKE ?", like, like)
		}
		if cat := c.Query("category"); cat != "" {
			dbq = dbq.Where("category = ?", cat)
		}
		if c.Query("low_stock") == "true" {
			dbq = dbq.Where("current_stock < min_stock_level")
		}

		var list []models.Article
		if err := dbq.Order("sku ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnten nicht geladen werden")
		}

		resp := make([]ArticleResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toArticleResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/articles/:id
func GetArticleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var article models.Article
		if err := database.DB.Preload("WarehouseLocation").
			First(&article, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}
		return c.JSON(toArticleResponse(&article))
	}
}

// PUT /api/articles/:id
// Stammdaten-Update; die Bestandszähler sind hier bewusst nicht erreichbar.
func UpdateArticleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ArticleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		var article models.Article
		if err := database.DB.First(&article, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}
		before := article

		if body.Name != "" {
			article.Name = body.Name
		}
		if body.Category != "" {
			category, err := parseCategory(body.Category)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			article.Category = category
		}
		if body.Unit != "" {
			article.Unit = body.Unit
		}
		if body.MinStockLevel >= 0 {
			article.MinStockLevel = body.MinStockLevel
		}
		if body.AvgPurchasePrice != "" {
			price, err := decimal.NewFromString(body.AvgPurchasePrice)
			if err != nil || price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "avg_purchase_price ist keine gültige Preisangabe")
			}
			article.AvgPurchasePrice = price
		}
		if body.WarehouseLocationID != nil {
			article.WarehouseLocationID = body.WarehouseLocationID
		}

		if err := database.DB.Model(&models.Article{}).Where("id = ?", article.ID).
			Updates(map[string]interface{}{
				"name":                  article.Name,
				"category":              article.Category,
				"unit":                  article.Unit,
				"min_stock_level":       article.MinStockLevel,
				"avg_purchase_price":    article.AvgPurchasePrice,
				"warehouse_location_id": article.WarehouseLocationID,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht aktualisiert werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "article",
			EntityID:    article.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Artikel aktualisiert: %s (%s)", article.Name, article.SKU),
			Before:      before,
			After:       article,
		})

		return c.JSON(toArticleResponse(&article))
	}
}

type DeactivateRequest struct {
	Actor string `json:"actor"`
}

// DELETE /api/articles/:id
// Artikel mit Bewegungs- oder Auftragshistorie werden nur deaktiviert,
// nie gelöscht — das Bestandsbuch muss referenzierbar bleiben.
func DeleteArticleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeactivateRequest
		_ = c.BodyParser(&body)

		var article models.Article
		if err := database.DB.First(&article, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}

		var movementCount, itemCount int64
		database.DB.Model(&models.StockMovement{}).Where("article_id = ?", article.ID).Count(&movementCount)
		database.DB.Model(&models.OrderItem{}).Where("article_id = ?", article.ID).Count(&itemCount)

		if movementCount > 0 || itemCount > 0 {
			if err := database.DB.Model(&models.Article{}).Where("id = ?", article.ID).
				Update("active", false).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht deaktiviert werden")
			}
		} else {
			if err := database.DB.Delete(&article).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Artikel konnte nicht gelöscht werden")
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "article",
			EntityID:    article.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Artikel entfernt/deaktiviert: %s (%s)", article.Name, article.SKU),
			Before:      article,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
