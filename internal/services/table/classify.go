package table

import (
	"math"

	"github.com/bobmcallan/idxholders/internal/models"
)

// Classify maps a change value to its row emphasis. Missing, NaN, zero and
// non-numeric values are neutral.
func Classify(change any) models.Classification {
	f, ok := models.ToFloat(change)
	if !ok || math.IsNaN(f) {
		return models.ClassNeutral
	}
	switch {
	case f > 0:
		return models.ClassIncrease
	case f < 0:
		return models.ClassDecrease
	}
	return models.ClassNeutral
}
