package models

import "time"

// OrderSequence: serialisierter Zähler hinter den Bestellnummern. Wird per
// atomarem UPDATE ... RETURNING hochgezählt, damit parallele Bestellanlagen
// keine doppelte Nummer ziehen können.
type OrderSequence struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;unique"` // derzeit nur "order_number"
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
