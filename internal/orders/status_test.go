package orders

import (
	"testing"
	"time"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func pickedItem(qty int) models.OrderItem {
	return models.OrderItem{Quantity: qty, PickedQty: qty}
}

func TestComputeOrderStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		order models.Order
		want  models.OrderStatus
	}{
		{
			name:  "leere Bestellung bleibt NEW",
			order: models.Order{Status: models.OrderNew},
			want:  models.OrderNew,
		},
		{
			name: "Positionen ohne Aktivität bleiben NEW",
			order: models.Order{
				Status: models.OrderNew,
				Items:  []models.OrderItem{{Quantity: 2}},
			},
			want: models.OrderNew,
		},
		{
			name: "teilweise kommissioniert ist IN_PROGRESS",
			order: models.Order{
				Status: models.OrderInProgress,
				Items:  []models.OrderItem{pickedItem(1), {Quantity: 3}},
			},
			want: models.OrderInProgress,
		},
		{
			name: "Beschaffung angestoßen zählt als Aktivität",
			order: models.Order{
				Status: models.OrderNew,
				Items:  []models.OrderItem{{Quantity: 1, OrderedAt: &now}},
			},
			want: models.OrderInProgress,
		},
		{
			name: "alles kommissioniert, Mobilfunk offen ist IN_SETUP",
			order: models.Order{
				Status:    models.OrderInProgress,
				Items:     []models.OrderItem{pickedItem(2)},
				Mobilfunk: []models.OrderMobilfunk{{Type: models.MobilfunkSimOnly, Ordered: true}},
			},
			want: models.OrderInSetup,
		},
		{
			name: "alles kommissioniert und eingerichtet ist READY_TO_SHIP",
			order: models.Order{
				Status:    models.OrderInProgress,
				Items:     []models.OrderItem{pickedItem(2)},
				Mobilfunk: []models.OrderMobilfunk{{Type: models.MobilfunkPhoneAndSim, Ordered: true, Received: true, SetupDone: true}},
			},
			want: models.OrderReadyToShip,
		},
		{
			name: "ohne Mobilfunk reicht Kommissionierung für READY_TO_SHIP",
			order: models.Order{
				Status: models.OrderInProgress,
				Items:  []models.OrderItem{pickedItem(1), pickedItem(4)},
			},
			want: models.OrderReadyToShip,
		},
		{
			name: "abgeschlossene Technikerarbeit ist COMPLETED",
			order: models.Order{
				Status:     models.OrderInProgress,
				TechDoneAt: &now,
				Items:      []models.OrderItem{pickedItem(1), {Quantity: 3}},
			},
			want: models.OrderCompleted,
		},
		{
			name: "Versand erfolgt ist COMPLETED",
			order: models.Order{
				Status:    models.OrderReadyToShip,
				ShippedAt: &now,
				Items:     []models.OrderItem{pickedItem(1)},
			},
			want: models.OrderCompleted,
		},
		{
			name: "CANCELLED ist terminal",
			order: models.Order{
				Status: models.OrderCancelled,
				Items:  []models.OrderItem{pickedItem(1)},
			},
			want: models.OrderCancelled,
		},
		{
			name: "COMPLETED ist terminal",
			order: models.Order{
				Status: models.OrderCompleted,
			},
			want: models.OrderCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeOrderStatus(&tt.order))
		})
	}
}

func TestComputeOrderStatusVeraendertNichts(t *testing.T) {
	order := models.Order{
		Status: models.OrderNew,
		Items:  []models.OrderItem{pickedItem(2), {Quantity: 1}},
	}

	_ = ComputeOrderStatus(&order)

	assert.Equal(t, models.OrderNew, order.Status)
	assert.Equal(t, 2, order.Items[0].PickedQty)
}

func TestNeedsProcurement(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		order models.Order
		want  bool
	}{
		{
			name: "unbestellte Position mit Bestellbedarf",
			order: models.Order{
				Status: models.OrderNew,
				Items:  []models.OrderItem{{Quantity: 1, NeedsOrdering: true}},
			},
			want: true,
		},
		{
			name: "bereits bestellte Position zählt nicht",
			order: models.Order{
				Status: models.OrderInProgress,
				Items:  []models.OrderItem{{Quantity: 1, NeedsOrdering: true, OrderedAt: &now}},
			},
			want: false,
		},
		{
			name: "ab Lager kommissionierte Position zählt nicht",
			order: models.Order{
				Status: models.OrderInProgress,
				Items:  []models.OrderItem{{Quantity: 1, PickedQty: 1, NeedsOrdering: true}},
			},
			want: false,
		},
		{
			name: "unbestellter Mobilfunk-Unterauftrag",
			order: models.Order{
				Status:    models.OrderNew,
				Mobilfunk: []models.OrderMobilfunk{{Type: models.MobilfunkSimOnly}},
			},
			want: true,
		},
		{
			name: "stornierte Bestellung nie",
			order: models.Order{
				Status: models.OrderCancelled,
				Items:  []models.OrderItem{{Quantity: 1, NeedsOrdering: true}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsProcurement(&tt.order))
		})
	}
}

func TestCanCancelOrder(t *testing.T) {
	now := time.Now()

	assert.True(t, CanCancelOrder(&models.Order{
		Status: models.OrderNew,
		Items:  []models.OrderItem{{Quantity: 2}},
	}))

	assert.False(t, CanCancelOrder(&models.Order{
		Status: models.OrderInProgress,
		Items:  []models.OrderItem{{Quantity: 2, PickedQty: 1}},
	}), "kommissionierte Position blockiert Storno")

	assert.False(t, CanCancelOrder(&models.Order{
		Status: models.OrderNew,
		Items:  []models.OrderItem{{Quantity: 2, OrderedAt: &now}},
	}), "angestoßene Beschaffung blockiert Storno")

	assert.False(t, CanCancelOrder(&models.Order{
		Status:    models.OrderNew,
		Mobilfunk: []models.OrderMobilfunk{{Ordered: true}},
	}), "bestellter Mobilfunk blockiert Storno")

	assert.False(t, CanCancelOrder(&models.Order{Status: models.OrderCompleted}))
}
