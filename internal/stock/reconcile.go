package stock

import "lager-backend/internal/models"

// ReplayMovements spielt das Bestandsbuch eines Artikels in Reihenfolge ab
// und liefert den daraus erwarteten Bestand. IN/OUT addieren, ADJUSTMENT
// setzt den Stand neu (die Korrektur trägt den gezählten Absolutwert).
func ReplayMovements(movements []models.StockMovement) int {
	expected := 0
	for i := range movements {
		m := &movements[i]
		switch m.Type {
		case models.MovementIn, models.MovementOut:
			expected += m.Quantity
		case models.MovementAdjustment:
			expected = m.Quantity
		}
	}
	return expected
}
