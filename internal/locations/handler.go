package locations

import (
	"fmt"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LocationRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Area        string `json:"area"`
	Actor       string `json:"actor"`
}

// POST /api/locations
func CreateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code ist erforderlich")
		}

		var existing int64
		database.DB.Model(&models.WarehouseLocation{}).Where("code = ?", body.Code).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Lagerplatz %s existiert bereits", body.Code))
		}

		location := models.WarehouseLocation{
			Code:        body.Code,
			Description: body.Description,
			Area:        body.Area,
		}
		if err := database.DB.Create(&location).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lagerplatz konnte nicht angelegt werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "warehouse_location",
			EntityID:    location.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lagerplatz angelegt: %s", location.Code),
			After:       location,
		})

		return c.Status(fiber.StatusCreated).JSON(location)
	}
}

// GET /api/locations?area=
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.WarehouseLocation{})
		if area := c.Query("area"); area != "" {
			dbq = dbq.Where("area = ?", area)
		}

		var list []models.WarehouseLocation
		if err := dbq.Order("code ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lagerplätze konnten nicht geladen werden")
		}
		return c.JSON(list)
	}
}

// PUT /api/locations/:id
func UpdateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		var location models.WarehouseLocation
		if err := database.DB.First(&location, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lagerplatz nicht gefunden")
		}
		before := location

		if body.Code != "" && body.Code != location.Code {
			var dup int64
			database.DB.Model(&models.WarehouseLocation{}).Where("code = ?", body.Code).Count(&dup)
			if dup > 0 {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Lagerplatz %s existiert bereits", body.Code))
			}
			location.Code = body.Code
		}
		location.Description = body.Description
		location.Area = body.Area

		if err := database.DB.Save(&location).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lagerplatz konnte nicht aktualisiert werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "warehouse_location",
			EntityID:    location.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lagerplatz aktualisiert: %s", location.Code),
			Before:      before,
			After:       location,
		})

		return c.JSON(location)
	}
}

// DELETE /api/locations/:id — nur möglich, wenn kein Artikel dort liegt
func DeleteLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var location models.WarehouseLocation
		if err := database.DB.First(&location, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lagerplatz nicht gefunden")
		}

		var inUse int64
		database.DB.Model(&models.Article{}).Where("warehouse_location_id = ?", location.ID).Count(&inUse)
		if inUse > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Lagerplatz %s wird noch von %d Artikel(n) verwendet", location.Code, inUse))
		}

		if err := database.DB.Delete(&location).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lagerplatz konnte nicht gelöscht werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "warehouse_location",
			EntityID:    location.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Lagerplatz gelöscht: %s", location.Code),
			Before:      location,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
