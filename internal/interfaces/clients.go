// Package interfaces defines service contracts for idxholders
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/idxholders/internal/models"
)

// ReportSource retrieves and parses one shareholder-change report.
// The date is only meaningful when mode is FetchExact.
type ReportSource interface {
	RetrieveAndParse(ctx context.Context, mode models.FetchMode, date time.Time) (*models.RecordSet, error)
}
