package orders

import (
	"errors"
	"fmt"
	"time"

	"lager-backend/internal/models"
	"lager-backend/internal/stock"

	"gorm.io/gorm"
)

// Domänenfehler der Auftragstransaktionen. Die Handler übersetzen sie an der
// Grenze in HTTP-Statuscodes mit Benutzermeldung; innerhalb einer Transaktion
// führt jeder Fehler zum vollständigen Rollback.
var (
	ErrInsufficientStock   = errors.New("nicht genügend Bestand")
	ErrSerialRequired      = errors.New("für diesen Artikel ist eine Seriennummer erforderlich")
	ErrSerialNotAvailable  = errors.New("Seriennummer ist nicht auf Lager")
	ErrDuplicateSerial     = errors.New("Seriennummer bereits vorhanden")
	ErrAlreadyPicked       = errors.New("Position ist bereits kommissioniert")
	ErrNotPicked           = errors.New("Position ist nicht kommissioniert")
	ErrAlreadyOrdered      = errors.New("Position ist bereits bestellt")
	ErrAlreadyResolved     = errors.New("Position ist bereits einem Artikel zugeordnet")
	ErrFreetextItem        = errors.New("Freitext-Position ohne Artikel")
	ErrQuantityExceedsItem = errors.New("Menge übersteigt die bestellte Menge")
	ErrSerialCountMismatch = errors.New("Anzahl Seriennummern passt nicht zur Menge")
	ErrOrderNotCancellable = errors.New("Bestellung kann nicht mehr storniert werden")
)

// ValidatePick prüft die Vorbedingungen einer Kommissionierung, ohne etwas
// zu verändern. Invariante danach: PickedQty <= Quantity.
func ValidatePick(article *models.Article, item *models.OrderItem, qty int, serialSelected bool) error {
	if item.PickedQty > 0 {
		return ErrAlreadyPicked
	}
	if qty <= 0 || qty > item.Quantity {
		return ErrQuantityExceedsItem
	}
	if article.RequiresSerialNumber() && !serialSelected {
		return ErrSerialRequired
	}
	if article.CurrentStock < qty {
		return ErrInsufficientStock
	}
	return nil
}

// PickItem: Kommissionierung einer Position. Setzt die Pick-Felder, bucht
// eine OUT-Bewegung (negative Menge), senkt den Bestand und setzt eine
// gewählte Seriennummer auf DEPLOYED mit Verknüpfung zur Position.
func PickItem(tx *gorm.DB, itemID uint, qty int, technician string, serialNumberID *uint) error {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}
	if item.ArticleID == nil {
		return ErrFreetextItem
	}

	article, err := stock.LockArticle(tx, *item.ArticleID)
	if err != nil {
		return err
	}

	if err := ValidatePick(article, &item, qty, serialNumberID != nil); err != nil {
		return err
	}

	now := time.Now()
	item.PickedQty = qty
	item.PickedBy = technician
	item.PickedAt = &now
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	movement := models.StockMovement{
		ArticleID:   article.ID,
		Type:        models.MovementOut,
		Quantity:    -qty,
		Reason:      "Kommissionierung",
		PerformedBy: technician,
		OrderID:     &item.OrderID,
		OrderItemID: &item.ID,
	}
	if err := stock.Record(tx, article, &movement); err != nil {
		return err
	}

	if serialNumberID != nil {
		var serial models.SerialNumber
		if err := tx.First(&serial, "id = ?", *serialNumberID).Error; err != nil {
			return err
		}
		if serial.ArticleID != article.ID || serial.Status != models.SerialInStock {
			return ErrSerialNotAvailable
		}
		serial.Status = models.SerialDeployed
		serial.OrderItemID = &item.ID
		if err := tx.Save(&serial).Error; err != nil {
			return err
		}
	}

	return SyncOrderStatus(tx, item.OrderID)
}

// ValidateUnpick prüft die Vorbedingungen einer Rückbuchung, ohne etwas zu
// verändern. Eine nicht (mehr) kommissionierte Position wird abgewiesen,
// sonst würde ein doppelter Unpick den Bestand doppelt gutschreiben.
func ValidateUnpick(item *models.OrderItem) error {
	if item.PickedQty == 0 {
		return ErrNotPicked
	}
	if item.ArticleID == nil {
		return ErrFreetextItem
	}
	return nil
}

// UnpickItem macht eine Kommissionierung exakt rückgängig: Pick-Felder
// zurücksetzen, kompensierende IN-Bewegung, Bestand erhöhen, verknüpfte
// Seriennummer zurück auf IN_STOCK.
func UnpickItem(tx *gorm.DB, itemID uint, actor string) error {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}
	if err := ValidateUnpick(&item); err != nil {
		return err
	}

	article, err := stock.LockArticle(tx, *item.ArticleID)
	if err != nil {
		return err
	}

	qty := item.PickedQty
	item.PickedQty = 0
	item.PickedBy = ""
	item.PickedAt = nil
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	movement := models.StockMovement{
		ArticleID:   article.ID,
		Type:        models.MovementIn,
		Quantity:    qty,
		Reason:      "Rückbuchung Kommissionierung",
		PerformedBy: actor,
		OrderID:     &item.OrderID,
		OrderItemID: &item.ID,
	}
	if err := stock.Record(tx, article, &movement); err != nil {
		return err
	}

	var serials []models.SerialNumber
	if err := tx.Where("order_item_id = ? AND status = ?", item.ID, models.SerialDeployed).
		Find(&serials).Error; err != nil {
		return err
	}
	for i := range serials {
		serials[i].Status = models.SerialInStock
		serials[i].OrderItemID = nil
		if err := tx.Save(&serials[i]).Error; err != nil {
			return err
		}
	}

	return SyncOrderStatus(tx, item.OrderID)
}

// ValidateReceive prüft die Vorbedingungen eines Wareneingangs, ohne etwas
// zu verändern: positive Menge, serialisierte Artikel nur mit Seriennummern,
// und die Anzahl Seriennummern muss exakt der Menge entsprechen.
func ValidateReceive(article *models.Article, qty int, serialCount int) error {
	if qty <= 0 {
		return ErrQuantityExceedsItem
	}
	if article.RequiresSerialNumber() && serialCount == 0 {
		return ErrSerialRequired
	}
	if serialCount > 0 && serialCount != qty {
		return ErrSerialCountMismatch
	}
	return nil
}

// ReceiveItem: Wareneingang auf eine Position. Erhöht Bestand, senkt den
// offenen Zugang und legt optional neue Seriennummern (IN_STOCK) an. Bei
// einer bereits vorhandenen Seriennummer schlägt die gesamte Transaktion
// fehl — alles oder nichts.
func ReceiveItem(tx *gorm.DB, itemID uint, qty int, serialNos []string, isUsed bool, actor string) error {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}
	if item.ArticleID == nil {
		return ErrFreetextItem
	}

	article, err := stock.LockArticle(tx, *item.ArticleID)
	if err != nil {
		return err
	}

	if err := ValidateReceive(article, qty, len(serialNos)); err != nil {
		return err
	}

	now := time.Now()
	item.ReceivedQty += qty
	item.ReceivedAt = &now
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	// Offener Zugang sinkt um dieselbe Menge, aber nie unter null
	// (Wareneingang ohne vorherige Bestellung ist erlaubt).
	article.IncomingStock -= qty
	if article.IncomingStock < 0 {
		article.IncomingStock = 0
	}

	movement := models.StockMovement{
		ArticleID:   article.ID,
		Type:        models.MovementIn,
		Quantity:    qty,
		Reason:      "Wareneingang",
		PerformedBy: actor,
		OrderID:     &item.OrderID,
		OrderItemID: &item.ID,
	}
	if err := stock.Record(tx, article, &movement); err != nil {
		return err
	}

	for _, serialNo := range serialNos {
		var count int64
		if err := tx.Model(&models.SerialNumber{}).
			Where("serial_no = ?", serialNo).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateSerial, serialNo)
		}

		serial := models.SerialNumber{
			SerialNo:    serialNo,
			ArticleID:   article.ID,
			Status:      models.SerialInStock,
			IsUsed:      isUsed,
			OrderItemID: &item.ID,
		}
		if err := tx.Create(&serial).Error; err != nil {
			return err
		}
	}

	return SyncOrderStatus(tx, item.OrderID)
}

// MarkItemOrdered: Beschaffungsstempel auf eine Position. Einzige Stelle, an
// der IncomingStock steigt. Sind danach alle Positionen mit Bestellbedarf
// bestellt, wird der Beschaffungs-Meilenstein der Bestellung gesetzt.
func MarkItemOrdered(tx *gorm.DB, itemID uint, supplierID uint, supplierOrderNo string, actor string) error {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}
	if item.OrderedAt != nil {
		return ErrAlreadyOrdered
	}

	var supplier models.Supplier
	if err := tx.First(&supplier, "id = ?", supplierID).Error; err != nil {
		return err
	}

	now := time.Now()
	item.OrderedAt = &now
	item.OrderedBy = actor
	item.SupplierID = &supplier.ID
	item.SupplierOrderNo = supplierOrderNo
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	if item.ArticleID != nil {
		article, err := stock.LockArticle(tx, *item.ArticleID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Article{}).Where("id = ?", article.ID).
			Update("incoming_stock", article.IncomingStock+item.Quantity).Error; err != nil {
			return err
		}
	}

	// Beschaffung abgeschlossen?
	var openItems int64
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND needs_ordering = ? AND ordered_at IS NULL", item.OrderID, true).
		Count(&openItems).Error; err != nil {
		return err
	}
	if openItems == 0 {
		if err := tx.Model(&models.Order{}).
			Where("id = ? AND proc_done_at IS NULL", item.OrderID).
			Update("proc_done_at", now).Error; err != nil {
			return err
		}
	}

	return SyncOrderStatus(tx, item.OrderID)
}

// ResolveFreetextItem ordnet einer Freitext-Position nachträglich einen
// Artikel zu. Nur erlaubt, solange noch kein Artikel gesetzt ist; der
// Übergang ist einmalig und nicht umkehrbar.
func ResolveFreetextItem(tx *gorm.DB, itemID uint, articleID uint) error {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}
	if item.ArticleID != nil {
		return ErrAlreadyResolved
	}

	var article models.Article
	if err := tx.First(&article, "id = ?", articleID).Error; err != nil {
		return err
	}

	item.ArticleID = &article.ID
	item.FreeText = ""
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	return SyncOrderStatus(tx, item.OrderID)
}

// CancelOrder storniert eine Bestellung, sofern der Storno-Wächter es
// zulässt; sonst Domänenfehler statt stillem No-Op.
func CancelOrder(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.Preload("Items").Preload("Mobilfunk").
		First(&order, "id = ?", orderID).Error; err != nil {
		return err
	}

	if !CanCancelOrder(&order) {
		return ErrOrderNotCancellable
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderCancelled).Error
}
