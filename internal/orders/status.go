package orders

import (
	"lager-backend/internal/models"

	"gorm.io/gorm"
)

// ComputeOrderStatus leitet den effektiven Pipeline-Status einer Bestellung
// aus Positionen und Mobilfunk-Unteraufträgen ab. Reine Funktion, verändert
// nichts; erster Treffer gewinnt:
//  1. gespeichert CANCELLED → CANCELLED (terminal)
//  2. gespeichert COMPLETED, Technikerarbeit fertig oder Versand erfolgt
//     → COMPLETED (terminal)
//  3. noch keinerlei Aktivität → NEW
//  4. alles kommissioniert und Mobilfunk eingerichtet → READY_TO_SHIP
//  5. alles kommissioniert, Mobilfunk-Einrichtung offen → IN_SETUP
//  6. sonst → IN_PROGRESS
func ComputeOrderStatus(o *models.Order) models.OrderStatus {
	if o.Status == models.OrderCancelled {
		return models.OrderCancelled
	}
	if o.Status == models.OrderCompleted || o.TechDoneAt != nil || o.ShippedAt != nil {
		return models.OrderCompleted
	}

	// Leere Bestellung bleibt NEW; sonst würde "alles kommissioniert"
	// über null Positionen sofort READY_TO_SHIP ergeben.
	if len(o.Items) == 0 && len(o.Mobilfunk) == 0 {
		return models.OrderNew
	}

	if !hasActivity(o) {
		return models.OrderNew
	}

	allPicked := true
	for i := range o.Items {
		if !o.Items[i].IsFullyPicked() {
			allPicked = false
			break
		}
	}

	allSetup := true
	for i := range o.Mobilfunk {
		if !o.Mobilfunk[i].SetupDone {
			allSetup = false
			break
		}
	}

	if allPicked && allSetup {
		return models.OrderReadyToShip
	}
	if allPicked {
		return models.OrderInSetup
	}
	return models.OrderInProgress
}

// hasActivity: wurde an der Bestellung schon kommissioniert, beschafft oder
// Mobilfunk bearbeitet?
func hasActivity(o *models.Order) bool {
	for i := range o.Items {
		it := &o.Items[i]
		if it.PickedQty > 0 || it.OrderedAt != nil || it.ReceivedQty > 0 {
			return true
		}
	}
	for i := range o.Mobilfunk {
		m := &o.Mobilfunk[i]
		if m.Ordered || m.Received || m.SetupDone {
			return true
		}
	}
	return false
}

// NeedsProcurement: gibt es noch unbestellte Positionen mit Bestellbedarf
// oder unbestellte Mobilfunk-Unteraufträge? Eigenes Signal neben dem Status,
// wird in den Listen als Filter angezeigt.
func NeedsProcurement(o *models.Order) bool {
	if o.Status == models.OrderCancelled || o.Status == models.OrderCompleted {
		return false
	}
	for i := range o.Items {
		it := &o.Items[i]
		if it.NeedsOrdering && it.OrderedAt == nil && !it.IsFullyPicked() {
			return true
		}
	}
	for i := range o.Mobilfunk {
		if !o.Mobilfunk[i].Ordered {
			return true
		}
	}
	return false
}

// CanCancelOrder: Stornieren ist nur erlaubt, solange nichts kommissioniert
// und keine Beschaffung angestoßen wurde.
func CanCancelOrder(o *models.Order) bool {
	if o.Status == models.OrderCancelled || o.Status == models.OrderCompleted {
		return false
	}
	for i := range o.Items {
		it := &o.Items[i]
		if it.PickedQty > 0 || it.OrderedAt != nil {
			return false
		}
	}
	for i := range o.Mobilfunk {
		if o.Mobilfunk[i].Ordered {
			return false
		}
	}
	return true
}

// SyncOrderStatus berechnet den Status neu und persistiert ihn nur, wenn er
// vom gespeicherten Wert abweicht. Wird nach jeder Auftragstransaktion
// innerhalb derselben Transaktion aufgerufen.
func SyncOrderStatus(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.Preload("Items").Preload("Mobilfunk").
		First(&order, "id = ?", orderID).Error; err != nil {
		return err
	}

	computed := ComputeOrderStatus(&order)
	if computed == order.Status {
		return nil
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", computed).Error
}
