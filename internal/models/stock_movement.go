package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "IN"         // Wareneingang / Rückbuchung
	MovementOut        MovementType = "OUT"        // Entnahme (Kommissionierung)
	MovementAdjustment MovementType = "ADJUSTMENT" // Inventur-Korrektur
)

// StockMovement: unveränderlicher Eintrag im Bestandsbuch. Wird nie
// aktualisiert oder gelöscht; die Artikel-Zähler sind die materialisierte
// Summe dieser Bewegungen.
//
// Achtung: Für IN/OUT ist Quantity additiv (vorzeichenbehaftet). Für
// ADJUSTMENT trägt Quantity den gezählten Absolutwert — der neue Bestand
// wird direkt gesetzt, nicht aufaddiert.
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	ArticleID uint `gorm:"index;not null"`
	Article   Article

	Type     MovementType `gorm:"size:20;not null;index"`
	Quantity int          `gorm:"not null"`
	Reason   string       `gorm:"size:255"`

	PerformedBy string `gorm:"size:100;not null"` // freier Text, keine Benutzerverwaltung

	OrderID     *uint `gorm:"index"`
	OrderItemID *uint `gorm:"index"`

	CreatedAt time.Time
}
