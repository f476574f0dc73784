package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ArticleCategory string

const (
	CategorySerialized ArticleCategory = "SERIALIZED" // seriennummernpflichtig (Notebooks, Handys etc.)
	CategoryStandard   ArticleCategory = "STANDARD"   // normaler Lagerartikel ohne Seriennummer
	CategoryConsumable ArticleCategory = "CONSUMABLE" // Verbrauchsmaterial, immer ab Lager
)

// Article: Katalogeintrag für einen Lagerartikel.
// CurrentStock und IncomingStock werden ausschließlich über das Bestandsbuch
// (StockMovement) bzw. die Auftragstransaktionen gepflegt — kein anderer
// Schreibpfad darf die Zähler anfassen.
type Article struct {
	ID       uint            `gorm:"primaryKey"`
	SKU      string          `gorm:"size:50;not null;unique"`
	Name     string          `gorm:"size:150;not null"`
	Category ArticleCategory `gorm:"size:20;not null;default:'STANDARD'"`
	Unit     string          `gorm:"size:20"` // Stück, Paket, Meter ...

	CurrentStock  int `gorm:"not null;default:0"` // physischer Bestand
	IncomingStock int `gorm:"not null;default:0"` // bestellt, noch nicht eingegangen
	MinStockLevel int `gorm:"not null;default:0"` // Meldebestand

	AvgPurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	WarehouseLocationID *uint
	WarehouseLocation   *WarehouseLocation

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequiresSerialNumber: nur SERIALIZED-Artikel brauchen beim Kommissionieren
// zwingend eine Seriennummer.
func (a *Article) RequiresSerialNumber() bool {
	return a.Category == CategorySerialized
}
