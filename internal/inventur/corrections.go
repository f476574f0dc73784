package inventur

import (
	"time"

	"lager-backend/internal/models"
)

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

// Diff: Differenz einer Zählposition (gezählt minus erwartet).
func Diff(expected int, counted int) int {
	return counted - expected
}

// ItemsNeedingCorrection filtert die geprüften Positionen heraus, deren
// Zählung vom Erwartungswert abweicht — nur für diese wird beim Abschluss
// eine ADJUSTMENT-Bewegung geschrieben.
func ItemsNeedingCorrection(items []models.InventurItem) []models.InventurItem {
	result := make([]models.InventurItem, 0)
	for i := range items {
		it := items[i]
		if !it.Checked || it.CountedQty == nil {
			continue
		}
		if it.Difference == 0 {
			continue
		}
		result = append(result, it)
	}
	return result
}
