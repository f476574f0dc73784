package orders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const orderNumberPrefix = "BES-"

var ErrSequenceMissing = errors.New("Bestellnummern-Sequenz ist nicht initialisiert")

// FormatOrderNumber: "BES-" + dreistellig aufgefüllte Nummer. Ab 1000 wächst
// die Nummer einfach weiter ("BES-1042").
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%s%03d", orderNumberPrefix, n)
}

// ParseOrderNumber liest den numerischen Suffix einer BES-Nummer.
func ParseOrderNumber(orderNumber string) (int64, error) {
	if !strings.HasPrefix(orderNumber, orderNumberPrefix) {
		return 0, fmt.Errorf("keine gültige Bestellnummer: %q", orderNumber)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(orderNumber, orderNumberPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("keine gültige Bestellnummer: %q", orderNumber)
	}
	return n, nil
}

// NextNumberAfter: die auf die höchste vorhandene Nummer folgende
// Bestellnummer; "BES-001" wenn noch keine existiert. Ungültige Nummern in
// der Eingabe werden ignoriert.
func NextNumberAfter(existing []string) string {
	highest := int64(0)
	for _, num := range existing {
		if n, err := ParseOrderNumber(num); err == nil && n > highest {
			highest = n
		}
	}
	return FormatOrderNumber(highest + 1)
}

// NextOrderNumber zieht die nächste Bestellnummer aus der Sequenz — atomares
// Increment-and-Read, damit parallele Bestellanlagen nie dieselbe Nummer
// bekommen. Muss innerhalb der Anlage-Transaktion laufen.
func NextOrderNumber(tx *gorm.DB) (string, error) {
	var value int64
	res := tx.Raw(
		`UPDATE order_sequences SET value = value + 1, updated_at = NOW() WHERE name = ? RETURNING value`,
		"order_number",
	).Scan(&value)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrSequenceMissing
	}
	return FormatOrderNumber(value), nil
}
