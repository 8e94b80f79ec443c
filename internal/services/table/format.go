package table

import (
	"math"
	"strconv"

	"golang.org/x/text/number"

	"github.com/bobmcallan/idxholders/internal/models"
)

// FormatCell renders one cell for display.
//
//   - nil and NaN render empty
//   - the sequence column renders as a bare integer
//   - numeric columns group thousands with '.'; fractional values keep exactly
//     two digits after ','
//   - everything else, and any numeric value that cannot be formatted, renders
//     in its plain string form
func (d *Deriver) FormatCell(col models.Column, v any) string {
	if models.IsMissing(v) {
		return ""
	}

	if col.Name == d.fields.Sequence {
		if n, ok := models.ToInt(v); ok {
			return strconv.FormatInt(n, 10)
		}
		return models.PlainString(v)
	}

	if col.Kind == models.ColumnNumeric {
		if s, ok := d.formatNumber(v); ok {
			return s
		}
	}

	return models.PlainString(v)
}

func (d *Deriver) formatNumber(v any) (string, bool) {
	if n, ok := models.ToInt(v); ok {
		return d.printer.Sprint(number.Decimal(n)), true
	}

	f, ok := models.ToFloat(v)
	if !ok || math.IsInf(f, 0) {
		return "", false
	}
	if f == math.Trunc(f) {
		return d.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(0))), true
	}
	return d.printer.Sprint(number.Decimal(f, number.Scale(2))), true
}
