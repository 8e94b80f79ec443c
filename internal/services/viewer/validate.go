package viewer

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/idxholders/internal/models"
)

const (
	msgDateRequired = "Please enter a date (YYYY-MM-DD)"
	msgDateFormat   = "Date format must be YYYY-MM-DD"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateFetchRequest checks the fetch toggles and returns the parsed exact
// date, or the zero time for latest mode.
func validateFetchRequest(v *validator.Validate, req models.FetchRequest) (time.Time, error) {
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return time.Time{}, &models.ValidationError{
				Field:   "mode",
				Message: "Fetch mode must be one of: latest, exact",
			}
		}
		return time.Time{}, err
	}

	if req.Mode != models.FetchExact {
		return time.Time{}, nil
	}

	date := strings.TrimSpace(req.Date)
	if err := v.Var(date, "required,datetime="+models.DateLayout); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
			return time.Time{}, &models.ValidationError{Field: "date", Message: msgDateRequired}
		}
		return time.Time{}, &models.ValidationError{Field: "date", Message: msgDateFormat}
	}

	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "date", Message: msgDateFormat}
	}
	return parsed, nil
}
