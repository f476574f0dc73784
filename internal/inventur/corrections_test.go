package inventur

import (
	"testing"

	"lager-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestDiff(t *testing.T) {
	assert.Equal(t, -2, Diff(10, 8))
	assert.Equal(t, 0, Diff(5, 5))
	assert.Equal(t, 3, Diff(7, 10))
}

func TestItemsNeedingCorrection(t *testing.T) {
	items := []models.InventurItem{
		{ArticleID: 1, ExpectedQty: 10, CountedQty: intPtr(8), Difference: -2, Checked: true},
		{ArticleID: 2, ExpectedQty: 5, CountedQty: intPtr(5), Difference: 0, Checked: true},
	}

	corrections := ItemsNeedingCorrection(items)

	assert.Len(t, corrections, 1, "nur die abweichende Position braucht eine Korrektur")
	assert.Equal(t, uint(1), corrections[0].ArticleID)
}

func TestItemsNeedingCorrectionIgnoriertUngeprüfte(t *testing.T) {
	items := []models.InventurItem{
		// abweichend, aber nie gezählt — darf den Bestand nicht anfassen
		{ArticleID: 1, ExpectedQty: 10, Difference: -10, Checked: false},
		{ArticleID: 2, ExpectedQty: 4, CountedQty: intPtr(1), Difference: -3, Checked: true},
		{ArticleID: 3, ExpectedQty: 0, CountedQty: intPtr(2), Difference: 2, Checked: true},
	}

	corrections := ItemsNeedingCorrection(items)

	assert.Len(t, corrections, 2)
	assert.Equal(t, uint(2), corrections[0].ArticleID)
	assert.Equal(t, uint(3), corrections[1].ArticleID)
}
