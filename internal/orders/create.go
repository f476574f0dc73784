package orders

import "lager-backend/internal/models"

// OrderIsPureConsumable: besteht die Bestellung ausschließlich aus
// artikelgebundenen CONSUMABLE-Positionen? Nur dann entfällt der
// Bestellbedarf (NeedsOrdering) für alle Positionen — Verbrauchsmaterial
// wird immer ab Lager bedient. Erwartet Positionen mit geladenem Artikel;
// Freitext-Positionen machen die Bestellung nie rein verbrauchsbasiert.
func OrderIsPureConsumable(items []models.OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for i := range items {
		it := &items[i]
		if it.Article == nil {
			return false
		}
		if it.Article.Category != models.CategoryConsumable {
			return false
		}
	}
	return true
}
