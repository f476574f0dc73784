package orders

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePick(t *testing.T) {
	standard := &models.Article{Category: models.CategoryStandard, CurrentStock: 10}
	serialized := &models.Article{Category: models.CategorySerialized, CurrentStock: 3}

	tests := []struct {
		name           string
		article        *models.Article
		item           models.OrderItem
		qty            int
		serialSelected bool
		wantErr        error
	}{
		{
			name:    "Standardartikel mit ausreichend Bestand",
			article: standard,
			item:    models.OrderItem{Quantity: 5},
			qty:     5,
		},
		{
			name:    "bereits kommissionierte Position",
			article: standard,
			item:    models.OrderItem{Quantity: 5, PickedQty: 5},
			qty:     5,
			wantErr: ErrAlreadyPicked,
		},
		{
			name:    "Menge über der Positionsmenge",
			article: standard,
			item:    models.OrderItem{Quantity: 2},
			qty:     3,
			wantErr: ErrQuantityExceedsItem,
		},
		{
			name:    "Menge null",
			article: standard,
			item:    models.OrderItem{Quantity: 2},
			qty:     0,
			wantErr: ErrQuantityExceedsItem,
		},
		{
			name:    "serialisierter Artikel ohne Seriennummer",
			article: serialized,
			item:    models.OrderItem{Quantity: 1},
			qty:     1,
			wantErr: ErrSerialRequired,
		},
		{
			name:           "serialisierter Artikel mit Seriennummer",
			article:        serialized,
			item:           models.OrderItem{Quantity: 1},
			qty:            1,
			serialSelected: true,
		},
		{
			name:    "Bestand reicht nicht",
			article: &models.Article{Category: models.CategoryStandard, CurrentStock: 1},
			item:    models.OrderItem{Quantity: 4},
			qty:     4,
			wantErr: ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePick(tt.article, &tt.item, tt.qty, tt.serialSelected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUnpick(t *testing.T) {
	articleID := uint(1)

	t.Run("kommissionierte Position darf zurückgebucht werden", func(t *testing.T) {
		item := models.OrderItem{ArticleID: &articleID, Quantity: 3, PickedQty: 3}
		assert.NoError(t, ValidateUnpick(&item))
	})

	t.Run("doppeltes Rückbuchen wird abgewiesen", func(t *testing.T) {
		// nach dem ersten Unpick steht PickedQty wieder auf 0 — ein zweiter
		// Unpick würde den Bestand doppelt gutschreiben
		item := models.OrderItem{ArticleID: &articleID, Quantity: 3, PickedQty: 3}
		assert.NoError(t, ValidateUnpick(&item))

		item.PickedQty = 0
		assert.ErrorIs(t, ValidateUnpick(&item), ErrNotPicked)
	})

	t.Run("nie kommissionierte Position", func(t *testing.T) {
		item := models.OrderItem{ArticleID: &articleID, Quantity: 3}
		assert.ErrorIs(t, ValidateUnpick(&item), ErrNotPicked)
	})

	t.Run("Freitext-Position ohne Artikel", func(t *testing.T) {
		item := models.OrderItem{FreeText: "Spezialkabel", Quantity: 1, PickedQty: 1}
		assert.ErrorIs(t, ValidateUnpick(&item), ErrFreetextItem)
	})
}

func TestValidateReceive(t *testing.T) {
	standard := &models.Article{Category: models.CategoryStandard}
	serialized := &models.Article{Category: models.CategorySerialized}

	tests := []struct {
		name        string
		article     *models.Article
		qty         int
		serialCount int
		wantErr     error
	}{
		{
			name:    "Standardartikel ohne Seriennummern",
			article: standard,
			qty:     5,
		},
		{
			name:        "serialisierter Artikel mit passender Anzahl",
			article:     serialized,
			qty:         2,
			serialCount: 2,
		},
		{
			name:    "Menge null",
			article: standard,
			qty:     0,
			wantErr: ErrQuantityExceedsItem,
		},
		{
			name:    "serialisierter Artikel ohne Seriennummern",
			article: serialized,
			qty:     2,
			wantErr: ErrSerialRequired,
		},
		{
			name:        "Anzahl Seriennummern passt nicht zur Menge",
			article:     serialized,
			qty:         3,
			serialCount: 2,
			wantErr:     ErrSerialCountMismatch,
		},
		{
			name:        "zu viele Seriennummern auch beim Standardartikel",
			article:     standard,
			qty:         1,
			serialCount: 2,
			wantErr:     ErrSerialCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReceive(tt.article, tt.qty, tt.serialCount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
