package inventur

import (
	"fmt"

	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/inventur/:id/export
// Exportiert die Zählliste als Excel-Datei (auch zum Ausdrucken fürs Lager).
func ExportInventurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inv models.Inventur
		if err := database.DB.Preload("Items.Article").Preload("Items.Article.WarehouseLocation").
			First(&inv, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Inventur nicht gefunden")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Zählliste"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"SKU", "Artikel", "Lagerplatz", "Erwartet", "Gezählt", "Differenz", "Geprüft von"}
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, item := range inv.Items {
			location := ""
			if item.Article.WarehouseLocation != nil {
				location = item.Article.WarehouseLocation.Code
			}
			values := []interface{}{
				item.Article.SKU,
				item.Article.Name,
				location,
				item.ExpectedQty,
				nil,
				nil,
				item.CheckedBy,
			}
			if item.CountedQty != nil {
				values[4] = *item.CountedQty
				values[5] = item.Difference
			}
			for col, v := range values {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export konnte nicht erzeugt werden")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=inventur-%d.xlsx", inv.ID))
		return c.Send(buf.Bytes())
	}
}
