package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog: Protokolleintrag für jede schreibende Operation. Der Bearbeiter
// ist freier Text (keine Benutzerverwaltung), Vorher/Nachher als JSON.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ActorName string `gorm:"size:100" json:"actor_name"`

	// Welches Entity? (z.B. "article", "order", "order_item", "inventur")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	// Kurze Zusammenfassung für die Anzeige
	Description string `gorm:"size:255" json:"description"`

	// Vorheriger und neuer Zustand (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
