package models

import "time"

type OrderStatus string

// Kanonischer Pipeline-Status. NEW → IN_PROGRESS → IN_SETUP → READY_TO_SHIP
// → COMPLETED; CANCELLED ist aus jedem nicht-terminalen Zustand erreichbar.
// COMPLETED und CANCELLED sind terminal.
const (
	OrderNew         OrderStatus = "NEW"
	OrderInProgress  OrderStatus = "IN_PROGRESS"   // Kommissionierung läuft
	OrderInSetup     OrderStatus = "IN_SETUP"      // Positionen fertig, Mobilfunk-Einrichtung offen
	OrderReadyToShip OrderStatus = "READY_TO_SHIP" // versand- bzw. abholbereit
	OrderCompleted   OrderStatus = "COMPLETED"
	OrderCancelled   OrderStatus = "CANCELLED"
)

type DeliveryMethod string

const (
	DeliveryShipping DeliveryMethod = "SHIPPING"
	DeliveryPickup   DeliveryMethod = "PICKUP"
)

// Order: interne Bestellung ("BES-NNN"). Besitzt ihre Positionen und
// Mobilfunk-Unteraufträge exklusiv (Cascade-Delete).
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:20;not null;unique"` // Format BES-NNN

	OrderedBy  string `gorm:"size:100;not null"` // freier Text, keine Benutzerverwaltung
	OrderedFor string `gorm:"size:100;not null"`
	CostCenter string `gorm:"size:50"`

	DeliveryMethod DeliveryMethod `gorm:"size:20;not null;default:'SHIPPING'"`

	// Persistierter Status; die Anzeige nutzt den abgeleiteten Status,
	// SyncOrderStatus gleicht nach jeder Transaktion ab.
	Status OrderStatus `gorm:"size:20;not null;default:'NEW';index"`

	TechnicianName string `gorm:"size:100"`
	Notes          string `gorm:"size:500"`

	// Meilensteine der Pipeline
	TechDoneAt  *time.Time
	SetupDoneAt *time.Time
	ShippedAt   *time.Time
	ProcDoneAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items     []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Mobilfunk []OrderMobilfunk `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: Position einer Bestellung. Entweder artikelgebunden (ArticleID)
// oder Freitext — nie beides. Eine Freitext-Position kann später genau einmal
// einem Artikel zugeordnet werden.
type OrderItem struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"index;not null"`

	ArticleID *uint `gorm:"index"`
	Article   *Article
	FreeText  string `gorm:"size:255"`

	Quantity int `gorm:"not null"`

	// Bei Anlage berechnet: false nur wenn die gesamte Bestellung aus
	// CONSUMABLE-Lagerware besteht.
	NeedsOrdering bool `gorm:"not null;default:true"`

	// Beschaffung
	OrderedAt       *time.Time
	OrderedBy       string `gorm:"size:100"`
	SupplierID      *uint
	Supplier        *Supplier
	SupplierOrderNo string `gorm:"size:100"`

	// Wareneingang
	ReceivedQty int `gorm:"not null;default:0"`
	ReceivedAt  *time.Time

	// Kommissionierung; Invariante: PickedQty <= Quantity
	PickedQty int    `gorm:"not null;default:0"`
	PickedBy  string `gorm:"size:100"`
	PickedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFullyPicked: Position vollständig kommissioniert.
func (i *OrderItem) IsFullyPicked() bool {
	return i.Quantity > 0 && i.PickedQty >= i.Quantity
}

type MobilfunkType string

const (
	MobilfunkPhoneOnly   MobilfunkType = "PHONE_ONLY"
	MobilfunkSimOnly     MobilfunkType = "SIM_ONLY"
	MobilfunkPhoneAndSim MobilfunkType = "PHONE_AND_SIM"
)

// OrderMobilfunk: Mobilfunk-Unterauftrag einer Bestellung (SIM/Gerät).
// Jeder Meilenstein speichert Bearbeiter und Zeitpunkt.
type OrderMobilfunk struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"index;not null"`

	Type MobilfunkType `gorm:"size:20;not null"`

	Ordered   bool `gorm:"not null;default:false"`
	OrderedBy string `gorm:"size:100"`
	OrderedAt *time.Time

	Received   bool `gorm:"not null;default:false"`
	ReceivedBy string `gorm:"size:100"`
	ReceivedAt *time.Time

	SetupDone   bool `gorm:"not null;default:false"`
	SetupBy     string `gorm:"size:100"`
	SetupAt     *time.Time
	IMEI        string `gorm:"size:20"`
	PhoneNumber string `gorm:"size:30"`

	Delivered   bool `gorm:"not null;default:false"`
	DeliveredBy string `gorm:"size:100"`
	DeliveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
