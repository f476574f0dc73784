package articles

import (
	"fmt"
	"strconv"
	"strings"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Erwartetes Spaltenlayout der Importdatei (erste Tabelle, Zeile 1 = Kopf):
// SKU | Name | Kategorie | Einheit | Meldebestand | EK-Preis | Lagerplatz
const importColumnCount = 7

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

// parseImportRow bildet eine Excel-Zeile auf einen Artikel ab. Der Rückgabewert
// trägt nur Stammdaten; Bestandszähler werden beim Import nie gesetzt.
func parseImportRow(cells []string) (*models.Article, error) {
	for len(cells) < importColumnCount {
		cells = append(cells, "")
	}

	sku := strings.TrimSpace(cells[0])
	name := strings.TrimSpace(cells[1])
	if sku == "" || name == "" {
		return nil, fmt.Errorf("SKU und Name dürfen nicht leer sein")
	}

	category, err := parseCategory(strings.TrimSpace(strings.ToUpper(cells[2])))
	if err != nil {
		return nil, err
	}

	minStock := 0
	if raw := strings.TrimSpace(cells[4]); raw != "" {
		minStock, err = strconv.Atoi(raw)
		if err != nil || minStock < 0 {
			return nil, fmt.Errorf("Meldebestand %q ist keine gültige Zahl", raw)
		}
	}

	price := decimal.Zero
	if raw := strings.TrimSpace(cells[5]); raw != "" {
		// Deutsche Dezimalschreibweise ("12,50") zulassen
		raw = strings.ReplaceAll(raw, ",", ".")
		price, err = decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("EK-Preis %q ist keine gültige Preisangabe", cells[5])
		}
	}

	return &models.Article{
		SKU:              sku,
		Name:             name,
		Category:         category,
		Unit:             strings.TrimSpace(cells[3]),
		MinStockLevel:    minStock,
		AvgPurchasePrice: price,
		Active:           true,
	}, nil
}

// POST /api/articles/import  (multipart, Feld "file")
// Upsert per SKU: vorhandene Artikel bekommen neue Stammdaten, unbekannte
// werden angelegt. Fehlerhafte Zeilen werden übersprungen und gemeldet.
func ImportArticlesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Keine Datei im Feld 'file' gefunden")
		}
		actor := c.FormValue("actor")

		src, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datei konnte nicht geöffnet werden")
		}
		defer src.Close()

		wb, err := excelize.OpenReader(src)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datei ist keine lesbare Excel-Datei")
		}
		defer wb.Close()

		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Die Arbeitsmappe enthält kein Tabellenblatt")
		}
		rows, err := wb.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tabellenblatt konnte nicht gelesen werden")
		}
		if len(rows) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "Die Datei enthält keine Datenzeilen")
		}

		result := ImportResult{Errors: []ImportRowError{}}
		seen := map[string]bool{}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		for i, cells := range rows[1:] {
			rowNo := i + 2 // 1-basiert inkl. Kopfzeile

			parsed, err := parseImportRow(cells)
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Message: err.Error()})
				continue
			}
			if seen[parsed.SKU] {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNo,
					Message: fmt.Sprintf("SKU %s kommt in der Datei mehrfach vor", parsed.SKU)})
				continue
			}
			seen[parsed.SKU] = true

			if code := strings.TrimSpace(cells[6]); code != "" {
				var loc models.WarehouseLocation
				if err := tx.First(&loc, "code = ?", code).Error; err != nil {
					result.Errors = append(result.Errors, ImportRowError{Row: rowNo,
						Message: fmt.Sprintf("Lagerplatz %q ist nicht angelegt", code)})
					continue
				}
				parsed.WarehouseLocationID = &loc.ID
			}

			var existing models.Article
			err = tx.First(&existing, "sku = ?", parsed.SKU).Error
			if err == nil {
				updates := map[string]interface{}{
					"name":               parsed.Name,
					"category":           parsed.Category,
					"unit":               parsed.Unit,
					"min_stock_level":    parsed.MinStockLevel,
					"avg_purchase_price": parsed.AvgPurchasePrice,
					"active":             true,
				}
				if parsed.WarehouseLocationID != nil {
					updates["warehouse_location_id"] = parsed.WarehouseLocationID
				}
				if err := tx.Model(&models.Article{}).Where("id = ?", existing.ID).
					Updates(updates).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Import fehlgeschlagen")
				}
				result.Updated++
			} else {
				if err := tx.Create(parsed).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Import fehlgeschlagen")
				}
				result.Created++
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Import konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:  actor,
			EntityType: "article",
			Action:     models.AuditActionUpdate,
			Description: fmt.Sprintf("Excel-Import %s: %d neu, %d aktualisiert, %d Fehler",
				fileHeader.Filename, result.Created, result.Updated, len(result.Errors)),
			After: result,
		})

		return c.JSON(result)
	}
}
