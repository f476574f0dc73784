package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "BES-001", FormatOrderNumber(1))
	assert.Equal(t, "BES-042", FormatOrderNumber(42))
	assert.Equal(t, "BES-999", FormatOrderNumber(999))
	// ab vierstellig wächst die Nummer einfach weiter
	assert.Equal(t, "BES-1000", FormatOrderNumber(1000))
}

func TestParseOrderNumber(t *testing.T) {
	n, err := ParseOrderNumber("BES-007")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = ParseOrderNumber("BES-1234")
	assert.NoError(t, err)
	assert.Equal(t, int64(1234), n)

	for _, invalid := range []string{"", "BES-", "BES-abc", "ORD-001", "007"} {
		_, err := ParseOrderNumber(invalid)
		assert.Error(t, err, "%q darf nicht parsen", invalid)
	}
}

func TestNextNumberAfter(t *testing.T) {
	assert.Equal(t, "BES-006", NextNumberAfter([]string{"BES-001", "BES-005"}))
	assert.Equal(t, "BES-001", NextNumberAfter(nil))
	// Lücken werden nicht aufgefüllt, es zählt nur das Maximum
	assert.Equal(t, "BES-100", NextNumberAfter([]string{"BES-099", "BES-003"}))
	// nicht parsbare Altnummern werden ignoriert
	assert.Equal(t, "BES-002", NextNumberAfter([]string{"BES-001", "ALT-77"}))
}
