package orders

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func itemWithCategory(cat models.ArticleCategory) models.OrderItem {
	id := uint(1)
	return models.OrderItem{
		ArticleID: &id,
		Article:   &models.Article{ID: id, Category: cat},
		Quantity:  1,
	}
}

func TestOrderIsPureConsumable(t *testing.T) {
	assert.True(t, OrderIsPureConsumable([]models.OrderItem{
		itemWithCategory(models.CategoryConsumable),
		itemWithCategory(models.CategoryConsumable),
	}))

	assert.False(t, OrderIsPureConsumable([]models.OrderItem{
		itemWithCategory(models.CategoryConsumable),
		itemWithCategory(models.CategoryStandard),
	}), "gemischte Bestellung hat Bestellbedarf")

	assert.False(t, OrderIsPureConsumable([]models.OrderItem{
		itemWithCategory(models.CategoryConsumable),
		{FreeText: "Sonderzubehör", Quantity: 1},
	}), "Freitext-Position verhindert die Abkürzung")

	assert.False(t, OrderIsPureConsumable(nil), "leere Bestellung ist nicht rein verbrauchsbasiert")
}
