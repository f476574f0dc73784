package audit

import (
	"encoding/json"
	"fmt"

	"lager-backend/internal/database"
	"lager-backend/internal/models"
)

type LogOptions struct {
	ActorName   string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog schreibt einen Protokolleintrag. Fehler beim Protokollieren dürfen
// die eigentliche Operation nie blockieren — Aufrufer ignorieren den Rückgabewert.
func WriteLog(opts LogOptions) error {
	// Für jsonb-Spalten muss ein leerer Wert als JSON-"null" abgelegt werden
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		ActorName:   opts.ActorName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit-log konnte nicht gespeichert werden: %w", err)
	}

	return nil
}
