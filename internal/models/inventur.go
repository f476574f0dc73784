package models

import "time"

type InventurStatus string

const (
	InventurInProgress InventurStatus = "IN_PROGRESS"
	InventurCompleted  InventurStatus = "COMPLETED"
	InventurCancelled  InventurStatus = "CANCELLED"
)

// Inventur: Stichtags-Zählsitzung. Beim Anlegen wird der aktuelle Bestand
// aller aktiven Artikel als Erwartungswert eingefroren.
type Inventur struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null"`
	StartedBy string `gorm:"size:100;not null"`

	Status InventurStatus `gorm:"size:20;not null;default:'IN_PROGRESS';index"`
	Notes  string         `gorm:"size:500"`

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []InventurItem `gorm:"foreignKey:InventurID;constraint:OnDelete:CASCADE"`
}

// InventurItem: eine Zählposition. Difference = CountedQty - ExpectedQty.
type InventurItem struct {
	ID         uint `gorm:"primaryKey"`
	InventurID uint `gorm:"index;not null"`
	ArticleID  uint `gorm:"index;not null"`
	Article    Article

	ExpectedQty int  `gorm:"not null"` // Snapshot bei Sitzungsstart
	CountedQty  *int // null bis gezählt
	Difference  int  `gorm:"not null;default:0"`

	Checked   bool `gorm:"not null;default:false"`
	CheckedBy string `gorm:"size:100"`
	CheckedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
