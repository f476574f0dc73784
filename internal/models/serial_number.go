package models

import "time"

type SerialStatus string

const (
	SerialInStock   SerialStatus = "IN_STOCK"
	SerialReserved  SerialStatus = "RESERVED"
	SerialDeployed  SerialStatus = "DEPLOYED"
	SerialDefective SerialStatus = "DEFECTIVE"
	SerialReturned  SerialStatus = "RETURNED"
	SerialDisposed  SerialStatus = "DISPOSED"
)

// SerialNumber: Einzelgerät eines serialisierten Artikels.
// Lebenszyklus: angelegt beim Wareneingang (IN_STOCK) → DEPLOYED beim
// Kommissionieren (mit Verknüpfung zur Auftragsposition) → zurück auf
// IN_STOCK beim Rückbuchen. DEFECTIVE/RETURNED/DISPOSED werden manuell
// über die Seriennummern-Verwaltung gesetzt.
type SerialNumber struct {
	ID        uint   `gorm:"primaryKey"`
	SerialNo  string `gorm:"size:100;not null;unique"`
	ArticleID uint   `gorm:"index;not null"`
	Article   Article

	Status SerialStatus `gorm:"size:20;not null;default:'IN_STOCK';index"`
	IsUsed bool         `gorm:"not null;default:false"` // Gebrauchtgerät

	OrderItemID *uint `gorm:"index"` // gesetzt solange DEPLOYED für eine Position

	CreatedAt time.Time
	UpdatedAt time.Time
}
