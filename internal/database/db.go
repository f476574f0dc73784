package database

import (
	"log"
	"strconv"
	"strings"

	"lager-backend/internal/config"
	"lager-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Keine Verbindung zur Datenbank: %v", err)
	}

	err = DB.AutoMigrate(
		&models.WarehouseLocation{},
		&models.Article{},
		&models.StockMovement{},
		&models.SerialNumber{},
		&models.Supplier{},
		&models.ArticleSupplier{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderMobilfunk{},
		&models.Inventur{},
		&models.InventurItem{},
		&models.OrderSequence{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate fehlgeschlagen: %v", err)
	}

	seedOrderSequence()

	log.Println("Datenbankverbindung steht. Migration abgeschlossen.")
}

// seedOrderSequence legt den Bestellnummern-Zähler an und initialisiert ihn
// aus der höchsten vorhandenen BES-Nummer. Läuft nur, solange noch kein
// Zähler existiert — danach ist die Sequenz allein maßgeblich.
func seedOrderSequence() {
	var count int64
	DB.Model(&models.OrderSequence{}).Where("name = ?", "order_number").Count(&count)
	if count > 0 {
		return
	}

	var numbers []string
	DB.Model(&models.Order{}).Where("order_number LIKE ?", "BES-%").Pluck("order_number", &numbers)

	highest := int64(0)
	for _, n := range numbers {
		suffix := strings.TrimPrefix(n, "BES-")
		if v, err := strconv.ParseInt(suffix, 10, 64); err == nil && v > highest {
			highest = v
		}
	}

	seq := models.OrderSequence{Name: "order_number", Value: highest}
	if err := DB.Create(&seq).Error; err != nil {
		log.Fatalf("Bestellnummern-Sequenz konnte nicht angelegt werden: %v", err)
	}
	log.Printf("Bestellnummern-Sequenz initialisiert (Startwert %d)", highest)
}
