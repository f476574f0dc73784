package stock

import (
	"errors"

	"lager-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNegativeStock   = errors.New("Bewegung würde den Bestand negativ machen")
	ErrUnknownMovement = errors.New("unbekannter Bewegungstyp")
)

// LockArticle lädt den Artikel mit Zeilensperre (SELECT ... FOR UPDATE).
// Alle Transaktionen, die Zähler ändern, müssen zuerst hierüber gehen, damit
// sich parallele Kommissionierungen auf den letzten Bestand nicht überholen.
func LockArticle(tx *gorm.DB, articleID uint) (*models.Article, error) {
	var article models.Article
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&article, "id = ?", articleID).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Apply wendet eine Bewegung auf die Artikelzähler an — nur im Speicher.
// IN/OUT sind additiv (vorzeichenbehaftete Menge), ADJUSTMENT setzt den
// Bestand direkt auf den gezählten Wert.
func Apply(article *models.Article, m *models.StockMovement) error {
	switch m.Type {
	case models.MovementIn, models.MovementOut:
		article.CurrentStock += m.Quantity
	case models.MovementAdjustment:
		article.CurrentStock = m.Quantity
	default:
		return ErrUnknownMovement
	}
	if article.CurrentStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Record hängt die Bewegung ans Bestandsbuch an und schreibt die neuen
// Zähler des (bereits gesperrten) Artikels — innerhalb der Transaktion des
// Aufrufers. Einziger Schreibpfad für CurrentStock/IncomingStock.
func Record(tx *gorm.DB, article *models.Article, m *models.StockMovement) error {
	if err := Apply(article, m); err != nil {
		return err
	}
	if err := tx.Create(m).Error; err != nil {
		return err
	}
	return tx.Model(&models.Article{}).Where("id = ?", article.ID).
		Updates(map[string]interface{}{
			"current_stock":  article.CurrentStock,
			"incoming_stock": article.IncomingStock,
		}).Error
}
