package serials

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestManualStatusAllowed(t *testing.T) {
	assert.True(t, manualStatusAllowed(models.SerialInStock))
	assert.True(t, manualStatusAllowed(models.SerialDefective))
	assert.True(t, manualStatusAllowed(models.SerialReturned))
	assert.True(t, manualStatusAllowed(models.SerialDisposed))

	// RESERVED/DEPLOYED vergibt nur die Auftragsabwicklung
	assert.False(t, manualStatusAllowed(models.SerialReserved))
	assert.False(t, manualStatusAllowed(models.SerialDeployed))
	assert.False(t, manualStatusAllowed(models.SerialStatus("LOST")))
}
