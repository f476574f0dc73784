package models

import "time"

// WarehouseLocation: Lagerplatz (Regal/Fach), wird Artikeln zugeordnet.
type WarehouseLocation struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"size:50;not null;unique"` // z.B. "R03-F12"
	Description string `gorm:"size:255"`
	Area        string `gorm:"size:50"` // Halle/Bereich
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
