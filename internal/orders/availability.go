package orders

import "lager-backend/internal/models"

type Availability string

const (
	AvailabilityGreen  Availability = "green"  // alles ab Lager lieferbar
	AvailabilityYellow Availability = "yellow" // Fehlmenge durch offene Zugänge gedeckt
	AvailabilityRed    Availability = "red"    // nicht lieferbar bzw. Freitext ohne Artikel
)

// CalculateStockAvailability klassifiziert die Lieferfähigkeit einer
// Bestellung für die Techniker- und Dashboard-Listen. Rein lesend; erwartet
// Positionen mit vorgeladenem Artikel.
func CalculateStockAvailability(items []models.OrderItem) Availability {
	shortfall := false
	for i := range items {
		it := &items[i]

		// Freitext ohne zugeordneten Artikel ist nie lieferbar
		if it.ArticleID == nil || it.Article == nil {
			return AvailabilityRed
		}

		if it.Article.CurrentStock >= it.Quantity {
			continue
		}
		// Fehlmenge: reicht Bestand + offener Zugang?
		if it.Article.CurrentStock+it.Article.IncomingStock < it.Quantity {
			return AvailabilityRed
		}
		shortfall = true
	}

	if shortfall {
		return AvailabilityYellow
	}
	return AvailabilityGreen
}
