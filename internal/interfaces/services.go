package interfaces

import (
	"context"

	"github.com/bobmcallan/idxholders/internal/models"
)

// ViewerStatus is a point-in-time snapshot of the viewer state
type ViewerStatus struct {
	Busy        bool
	FetchMode   models.FetchMode
	ExactDate   string
	View        models.ViewConfig
	LastFetchID string
	Loaded      bool
	ReportDate  string
	Records     int
}

// ViewerService owns the current record set and the user toggles
type ViewerService interface {
	// StartFetch validates the fetch toggles and starts one fetch in the background.
	// Exactly one result is delivered on the returned channel.
	StartFetch(ctx context.Context) (<-chan models.FetchResult, error)

	// Complete applies a fetch result. Failures leave the current record set untouched.
	Complete(result models.FetchResult) error

	// Fetch runs StartFetch and Complete back to back
	Fetch(ctx context.Context) error

	// Table derives the current record set under the current view
	Table() (*models.DerivedTable, error)

	SetColumnMode(mode models.ColumnMode) error
	ToggleColumnMode() error
	SetHideZeroChange(hide bool) error
	ToggleHideZeroChange() error
	SetFetchMode(mode models.FetchMode) error
	ToggleFetchMode() error
	SetExactDate(date string) error

	Status() ViewerStatus
}
