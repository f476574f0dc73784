package articles

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportRow(t *testing.T) {
	article, err := parseImportRow([]string{"NB-100", "ThinkPad T14", "SERIALIZED", "Stück", "5", "899,00", "R01-F02"})
	require.NoError(t, err)

	assert.Equal(t, "NB-100", article.SKU)
	assert.Equal(t, "ThinkPad T14", article.Name)
	assert.Equal(t, models.CategorySerialized, article.Category)
	assert.Equal(t, "Stück", article.Unit)
	assert.Equal(t, 5, article.MinStockLevel)
	assert.True(t, article.AvgPurchasePrice.Equal(decimal.RequireFromString("899.00")))
	assert.True(t, article.Active)
	// Bestandszähler werden beim Import nie gesetzt
	assert.Equal(t, 0, article.CurrentStock)
	assert.Equal(t, 0, article.IncomingStock)
}

func TestParseImportRowKurzeZeile(t *testing.T) {
	// fehlende Spalten am Zeilenende liefert excelize nicht mit
	article, err := parseImportRow([]string{"KAB-01", "HDMI-Kabel", "CONSUMABLE"})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryConsumable, article.Category)
	assert.Equal(t, 0, article.MinStockLevel)
	assert.True(t, article.AvgPurchasePrice.IsZero())
}

func TestParseImportRowFehler(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
	}{
		{"leere SKU", []string{"", "Name", "STANDARD", "", "", "", ""}},
		{"leerer Name", []string{"SKU-1", "", "STANDARD", "", "", "", ""}},
		{"unbekannte Kategorie", []string{"SKU-1", "Name", "LAGERWARE", "", "", "", ""}},
		{"Meldebestand keine Zahl", []string{"SKU-1", "Name", "STANDARD", "", "viel", "", ""}},
		{"negativer Meldebestand", []string{"SKU-1", "Name", "STANDARD", "", "-1", "", ""}},
		{"Preis keine Zahl", []string{"SKU-1", "Name", "STANDARD", "", "", "teuer", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseImportRow(tt.cells)
			assert.Error(t, err)
		})
	}
}
