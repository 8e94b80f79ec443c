// Package viewer owns the current shareholder-change report and the user
// toggles, and enforces at most one fetch in flight.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bobmcallan/idxholders/internal/common"
	"github.com/bobmcallan/idxholders/internal/interfaces"
	"github.com/bobmcallan/idxholders/internal/models"
	"github.com/bobmcallan/idxholders/internal/services/table"
)

// ErrFetchInFlight is returned for any control used while a fetch is running
var ErrFetchInFlight = errors.New("a fetch is already in progress")

var _ interfaces.ViewerService = (*Service)(nil)

// Service implements ViewerService
type Service struct {
	source   interfaces.ReportSource
	deriver  *table.Deriver
	logger   *common.Logger
	validate *validator.Validate

	mu          sync.Mutex
	view        models.ViewConfig
	fetchMode   models.FetchMode
	exactDate   string
	current     *models.RecordSet
	inFlight    bool
	pendingID   string
	lastFetchID string
}

// NewService creates a viewer with startup defaults: simple view, zero-change
// rows shown, latest report, today's date in the exact-date field.
func NewService(source interfaces.ReportSource, deriver *table.Deriver, logger *common.Logger) *Service {
	if deriver == nil {
		deriver = table.NewDeriver()
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		source:    source,
		deriver:   deriver,
		logger:    logger,
		validate:  newValidator(),
		view:      models.DefaultViewConfig(),
		fetchMode: models.FetchLatest,
		exactDate: time.Now().Format(models.DateLayout),
	}
}

// StartFetch validates the fetch toggles synchronously and runs the source on
// its own goroutine. The returned channel carries exactly one result and is
// then closed. Controls stay disabled until Complete is called.
func (s *Service) StartFetch(ctx context.Context) (<-chan models.FetchResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrFetchInFlight
	}

	req := models.FetchRequest{Mode: s.fetchMode, Date: s.exactDate}
	date, err := validateFetchRequest(s.validate, req)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn().Str("mode", string(req.Mode)).Str("date", req.Date).Err(err).Msg("Fetch request rejected")
		return nil, err
	}

	id := uuid.NewString()
	s.inFlight = true
	s.pendingID = id
	s.mu.Unlock()

	s.logger.Info().Str("fetch_id", id).Str("mode", string(req.Mode)).Str("date", req.Date).Msg("Fetch started")

	results := make(chan models.FetchResult, 1)
	go func() {
		defer close(results)
		start := time.Now()
		rs, err := s.source.RetrieveAndParse(ctx, req.Mode, date)
		if err == nil && rs == nil {
			rs = models.NewRecordSet(date, nil, nil)
		}
		results <- models.FetchResult{
			ID:        id,
			Mode:      req.Mode,
			Date:      date,
			RecordSet: rs,
			Err:       err,
			Elapsed:   time.Since(start),
		}
	}()

	return results, nil
}

// Complete applies a fetch result on the presentation side. Success replaces
// the current record set; failure keeps it and returns the source diagnostic.
// Controls are re-enabled either way.
func (s *Service) Complete(result models.FetchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID != s.pendingID {
		s.logger.Warn().Str("fetch_id", result.ID).Str("pending_id", s.pendingID).Msg("Ignoring stale fetch result")
		return nil
	}
	s.inFlight = false
	s.pendingID = ""

	if result.Err != nil {
		s.logger.Error().Err(result.Err).Str("fetch_id", result.ID).Dur("elapsed", result.Elapsed).Msg("Fetch failed")
		return result.Err
	}

	s.current = result.RecordSet
	s.lastFetchID = result.ID
	s.logger.Info().
		Str("fetch_id", result.ID).
		Int("records", result.RecordSet.Len()).
		Dur("elapsed", result.Elapsed).
		Msg("Fetch completed")
	return nil
}

// Fetch runs one fetch to completion on the calling goroutine's behalf
func (s *Service) Fetch(ctx context.Context) error {
	results, err := s.StartFetch(ctx)
	if err != nil {
		return err
	}
	result, ok := <-results
	if !ok {
		return fmt.Errorf("fetch ended without a result")
	}
	return s.Complete(result)
}

// Table derives the current record set. ErrNoData is returned when nothing
// has been loaded yet or the view filters every row out. Every call derives a
// fresh table.
func (s *Service) Table() (*models.DerivedTable, error) {
	s.mu.Lock()
	rs, view := s.current, s.view
	s.mu.Unlock()

	if rs == nil {
		return nil, table.ErrNoData
	}
	return s.deriver.Derive(rs, view)
}

// mutate applies fn to the toggles unless a fetch is running
func (s *Service) mutate(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrFetchInFlight
	}
	fn()
	return nil
}

// SetColumnMode selects the simple or full column set
func (s *Service) SetColumnMode(mode models.ColumnMode) error {
	if mode != models.ColumnModeSimple && mode != models.ColumnModeFull {
		return &models.ValidationError{Field: "column_mode", Message: fmt.Sprintf("unknown column mode %q", mode)}
	}
	return s.mutate(func() { s.view.ColumnMode = mode })
}

// ToggleColumnMode switches between the simple and full column sets
func (s *Service) ToggleColumnMode() error {
	return s.mutate(func() {
		if s.view.ColumnMode == models.ColumnModeFull {
			s.view.ColumnMode = models.ColumnModeSimple
		} else {
			s.view.ColumnMode = models.ColumnModeFull
		}
	})
}

// SetHideZeroChange sets whether rows with a zero or missing change are hidden
func (s *Service) SetHideZeroChange(hide bool) error {
	return s.mutate(func() { s.view.HideZeroChange = hide })
}

// ToggleHideZeroChange flips the hide-zero filter
func (s *Service) ToggleHideZeroChange() error {
	return s.mutate(func() { s.view.HideZeroChange = !s.view.HideZeroChange })
}

// SetFetchMode chooses between the latest report and an exact date
func (s *Service) SetFetchMode(mode models.FetchMode) error {
	return s.mutate(func() { s.fetchMode = mode })
}

// ToggleFetchMode switches between latest and exact-date fetching
func (s *Service) ToggleFetchMode() error {
	return s.mutate(func() {
		if s.fetchMode == models.FetchExact {
			s.fetchMode = models.FetchLatest
		} else {
			s.fetchMode = models.FetchExact
		}
	})
}

// SetExactDate stores the raw date text; it is validated when a fetch starts
func (s *Service) SetExactDate(date string) error {
	return s.mutate(func() { s.exactDate = date })
}

// Status returns a snapshot of the viewer state
func (s *Service) Status() interfaces.ViewerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := interfaces.ViewerStatus{
		Busy:        s.inFlight,
		FetchMode:   s.fetchMode,
		ExactDate:   s.exactDate,
		View:        s.view,
		LastFetchID: s.lastFetchID,
		Loaded:      s.current != nil,
		Records:     s.current.Len(),
	}
	if s.current != nil && !s.current.ReportDate.IsZero() {
		st.ReportDate = s.current.ReportDate.Format(models.DateLayout)
	}
	return st
}
