package orders

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func itemWithStock(qty, current, incoming int) models.OrderItem {
	id := uint(1)
	return models.OrderItem{
		ArticleID: &id,
		Article:   &models.Article{ID: id, CurrentStock: current, IncomingStock: incoming},
		Quantity:  qty,
	}
}

func TestCalculateStockAvailability(t *testing.T) {
	tests := []struct {
		name  string
		items []models.OrderItem
		want  Availability
	}{
		{
			name:  "alles ab Lager lieferbar",
			items: []models.OrderItem{itemWithStock(2, 5, 0), itemWithStock(1, 1, 0)},
			want:  AvailabilityGreen,
		},
		{
			name:  "Fehlmenge durch offenen Zugang gedeckt",
			items: []models.OrderItem{itemWithStock(5, 2, 3)},
			want:  AvailabilityYellow,
		},
		{
			name:  "Fehlmenge auch mit Zugang nicht gedeckt",
			items: []models.OrderItem{itemWithStock(10, 2, 3)},
			want:  AvailabilityRed,
		},
		{
			name: "Freitext ohne Artikel ist rot",
			items: []models.OrderItem{
				itemWithStock(1, 5, 0),
				{FreeText: "Spezialkabel 5m", Quantity: 1},
			},
			want: AvailabilityRed,
		},
		{
			name:  "eine gedeckte Fehlmenge färbt die ganze Bestellung gelb",
			items: []models.OrderItem{itemWithStock(1, 5, 0), itemWithStock(4, 2, 2)},
			want:  AvailabilityYellow,
		},
		{
			name:  "ohne Positionen grün",
			items: nil,
			want:  AvailabilityGreen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStockAvailability(tt.items))
		})
	}
}
