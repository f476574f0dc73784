package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier: Lieferant für die Beschaffung.
type Supplier struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:150;not null;unique"`
	ContactPerson string `gorm:"size:100"`
	Email         string `gorm:"size:150"`
	Phone         string `gorm:"size:50"`
	CustomerNo    string `gorm:"size:50"` // unsere Kundennummer beim Lieferanten
	Active        bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ArticleSupplier: Bezugsquelle eines Artikels bei einem Lieferanten.
type ArticleSupplier struct {
	ID         uint `gorm:"primaryKey"`
	ArticleID  uint `gorm:"index;not null"`
	Article    Article
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier

	SupplierSKU      string          `gorm:"size:100"` // Artikelnummer des Lieferanten
	Price            decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	DeliveryTimeDays int             `gorm:"not null;default:0"`
	IsPreferred      bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
