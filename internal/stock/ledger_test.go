package stock

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	t.Run("Eingang erhöht den Bestand", func(t *testing.T) {
		article := models.Article{CurrentStock: 5}
		err := Apply(&article, &models.StockMovement{Type: models.MovementIn, Quantity: 3})
		assert.NoError(t, err)
		assert.Equal(t, 8, article.CurrentStock)
	})

	t.Run("Entnahme senkt den Bestand", func(t *testing.T) {
		article := models.Article{CurrentStock: 5}
		err := Apply(&article, &models.StockMovement{Type: models.MovementOut, Quantity: -2})
		assert.NoError(t, err)
		assert.Equal(t, 3, article.CurrentStock)
	})

	t.Run("Korrektur setzt den Bestand absolut", func(t *testing.T) {
		article := models.Article{CurrentStock: 17}
		err := Apply(&article, &models.StockMovement{Type: models.MovementAdjustment, Quantity: 4})
		assert.NoError(t, err)
		assert.Equal(t, 4, article.CurrentStock)
	})

	t.Run("negativer Bestand wird abgelehnt", func(t *testing.T) {
		article := models.Article{CurrentStock: 1}
		err := Apply(&article, &models.StockMovement{Type: models.MovementOut, Quantity: -2})
		assert.ErrorIs(t, err, ErrNegativeStock)
	})

	t.Run("unbekannter Bewegungstyp", func(t *testing.T) {
		article := models.Article{CurrentStock: 1}
		err := Apply(&article, &models.StockMovement{Type: "TRANSFER", Quantity: 1})
		assert.ErrorIs(t, err, ErrUnknownMovement)
	})
}

// Kommissionieren und Rückbuchen derselben Menge muss den Ausgangsbestand
// exakt wiederherstellen.
func TestApplyPickUnpickRoundTrip(t *testing.T) {
	article := models.Article{CurrentStock: 9}

	assert.NoError(t, Apply(&article, &models.StockMovement{Type: models.MovementOut, Quantity: -4}))
	assert.Equal(t, 5, article.CurrentStock)

	assert.NoError(t, Apply(&article, &models.StockMovement{Type: models.MovementIn, Quantity: 4}))
	assert.Equal(t, 9, article.CurrentStock)
}

func TestReplayMovements(t *testing.T) {
	movements := []models.StockMovement{
		{Type: models.MovementIn, Quantity: 10},
		{Type: models.MovementOut, Quantity: -3},
		{Type: models.MovementIn, Quantity: 5},
	}
	assert.Equal(t, 12, ReplayMovements(movements))
}

func TestReplayMovementsAdjustmentSetztNeuAuf(t *testing.T) {
	movements := []models.StockMovement{
		{Type: models.MovementIn, Quantity: 10},
		{Type: models.MovementOut, Quantity: -3},
		// Inventur zählt 20 — alles davor ist damit abgegolten
		{Type: models.MovementAdjustment, Quantity: 20},
		{Type: models.MovementOut, Quantity: -5},
	}
	assert.Equal(t, 15, ReplayMovements(movements))
}

func TestReplayMovementsLeer(t *testing.T) {
	assert.Equal(t, 0, ReplayMovements(nil))
}
