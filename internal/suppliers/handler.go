package suppliers

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CustomerNo    string `json:"customer_no"`
	Actor         string `json:"actor"`
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name ist erforderlich")
		}

		var existing int64
		database.DB.Model(&models.Supplier{}).Where("name = ?", body.Name).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Lieferant %s existiert bereits", body.Name))
		}

		supplier := models.Supplier{
			Name:          body.Name,
			ContactPerson: body.ContactPerson,
			Email:         body.Email,
			Phone:         body.Phone,
			CustomerNo:    body.CustomerNo,
			Active:        true,
		}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lieferant konnte nicht angelegt werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lieferant angelegt: %s", supplier.Name),
			After:       supplier,
		})

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Supplier
		if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lieferanten konnten nicht geladen werden")
		}
		return c.JSON(list)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lieferant nicht gefunden")
		}
		before := supplier

		if body.Name != "" {
			supplier.Name = body.Name
		}
		supplier.ContactPerson = body.ContactPerson
		supplier.Email = body.Email
		supplier.Phone = body.Phone
		supplier.CustomerNo = body.CustomerNo

		if err := database.DB.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lieferant konnte nicht aktualisiert werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lieferant aktualisiert: %s", supplier.Name),
			Before:      before,
			After:       supplier,
		})

		return c.JSON(supplier)
	}
}

// DELETE /api/suppliers/:id — nur Deaktivierung, Bezugsquellen bleiben erhalten
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lieferant nicht gefunden")
		}
		if err := database.DB.Model(&models.Supplier{}).Where("id = ?", supplier.ID).
			Update("active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lieferant konnte nicht deaktiviert werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Lieferant deaktiviert: %s", supplier.Name),
			Before:      supplier,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type ArticleSupplierRequest struct {
	ArticleID        uint   `json:"article_id"`
	SupplierID       uint   `json:"supplier_id"`
	SupplierSKU      string `json:"supplier_sku"`
	Price            string `json:"price"`
	DeliveryTimeDays int    `json:"delivery_time_days"`
	IsPreferred      bool   `json:"is_preferred"`
	Actor            string `json:"actor"`
}

// POST /api/article-suppliers
// Verknüpft Artikel und Lieferant als Bezugsquelle. Pro Artikel kann höchstens
// eine Quelle bevorzugt sein; eine neue bevorzugte löst die alte ab.
func CreateArticleSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ArticleSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.ArticleID == 0 || body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "article_id und supplier_id sind erforderlich")
		}

		var article models.Article
		if err := database.DB.First(&article, "id = ?", body.ArticleID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Artikel nicht gefunden")
		}
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lieferant nicht gefunden")
		}

		var dup int64
		database.DB.Model(&models.ArticleSupplier{}).
			Where("article_id = ? AND supplier_id = ?", body.ArticleID, body.SupplierID).Count(&dup)
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("%s ist bereits als Bezugsquelle für %s hinterlegt", supplier.Name, article.SKU))
		}

		price := decimal.Zero
		if body.Price != "" {
			var err error
			price, err = decimal.NewFromString(body.Price)
			if err != nil || price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "price ist keine gültige Preisangabe")
			}
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		if body.IsPreferred {
			if err := tx.Model(&models.ArticleSupplier{}).
				Where("article_id = ?", body.ArticleID).
				Update("is_preferred", false).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Bezugsquelle konnte nicht angelegt werden")
			}
		}

		link := models.ArticleSupplier{
			ArticleID:        body.ArticleID,
			SupplierID:       body.SupplierID,
			SupplierSKU:      body.SupplierSKU,
			Price:            price,
			DeliveryTimeDays: body.DeliveryTimeDays,
			IsPreferred:      body.IsPreferred,
		}
		if err := tx.Create(&link).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bezugsquelle konnte nicht angelegt werden")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "article_supplier",
			EntityID:    link.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Bezugsquelle angelegt: %s bei %s", article.SKU, supplier.Name),
			After:       link,
		})

		return c.Status(fiber.StatusCreated).JSON(link)
	}
}

// GET /api/articles/:id/suppliers
func ListArticleSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.ArticleSupplier
		if err := database.DB.Preload("Supplier").
			Where("article_id = ?", c.Params("id")).
			Order("is_preferred DESC, price ASC").
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bezugsquellen konnten nicht geladen werden")
		}
		return c.JSON(list)
	}
}

// DELETE /api/article-suppliers/:id
func DeleteArticleSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var link models.ArticleSupplier
		if err := database.DB.First(&link, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bezugsquelle nicht gefunden")
		}
		if err := database.DB.Delete(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bezugsquelle konnte nicht gelöscht werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "article_supplier",
			EntityID:    link.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Bezugsquelle %d gelöscht", link.ID),
			Before:      link,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
