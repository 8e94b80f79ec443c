package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/idxholders/internal/models"
	"github.com/bobmcallan/idxholders/internal/services/table"
	tcommon "github.com/bobmcallan/idxholders/test/common"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(src *tcommon.MockReportSource) *Service {
	return NewService(src, table.NewDeriver(), nil)
}

func TestService_Defaults(t *testing.T) {
	svc := newTestService(tcommon.NewMockReportSource(nil))

	st := svc.Status()
	assert.False(t, st.Busy)
	assert.False(t, st.Loaded)
	assert.Equal(t, models.FetchLatest, st.FetchMode)
	assert.Equal(t, models.DefaultViewConfig(), st.View)
	assert.Equal(t, time.Now().Format(models.DateLayout), st.ExactDate)

	_, err := svc.Table()
	assert.ErrorIs(t, err, table.ErrNoData)
}

func TestService_FetchLoadsAndDerives(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)

	require.NoError(t, svc.Fetch(context.Background()))

	st := svc.Status()
	assert.True(t, st.Loaded)
	assert.False(t, st.Busy)
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, "2024-05-10", st.ReportDate)
	assert.NotEmpty(t, st.LastFetchID)

	mode, date := src.LastRequest()
	assert.Equal(t, models.FetchLatest, mode)
	assert.True(t, date.IsZero())

	tbl, err := svc.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"No", "Kode Efek", "Nama Pemegang Rekening Efek", "Perubahan"}, tbl.Columns)
	assert.Equal(t, 3, tbl.DataRows())
}

func TestService_TogglesRederiveWithoutRefetch(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)
	require.NoError(t, svc.Fetch(context.Background()))

	require.NoError(t, svc.ToggleColumnMode())
	tbl, err := svc.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"No", "Kode Efek", "Nama Pemegang Rekening Efek", "Jumlah Saham Sebelum", "Perubahan"}, tbl.Columns)
	assert.Equal(t, "1.234.567", tbl.Rows[0].Cells[3])
	assert.Equal(t, "2.500.000,50", tbl.Rows[1].Cells[3])

	require.NoError(t, svc.ToggleHideZeroChange())
	tbl, err = svc.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.DataRows())

	require.NoError(t, svc.SetColumnMode(models.ColumnModeSimple))
	require.NoError(t, svc.SetHideZeroChange(false))
	tbl, err = svc.Table()
	require.NoError(t, err)
	assert.Len(t, tbl.Columns, 4)
	assert.Equal(t, 3, tbl.DataRows())

	assert.Equal(t, 1, src.Calls())
}

func TestService_SetColumnModeRejectsUnknown(t *testing.T) {
	svc := newTestService(tcommon.NewMockReportSource(nil))

	err := svc.SetColumnMode("wide")
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestService_ExactDateValidation(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"empty", "", "Please enter a date (YYYY-MM-DD)"},
		{"blank", "   ", "Please enter a date (YYYY-MM-DD)"},
		{"wrong layout", "10/05/2024", "Date format must be YYYY-MM-DD"},
		{"impossible date", "2024-02-30", "Date format must be YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
			svc := newTestService(src)
			require.NoError(t, svc.SetFetchMode(models.FetchExact))
			require.NoError(t, svc.SetExactDate(tt.date))

			ch, err := svc.StartFetch(context.Background())
			assert.Nil(t, ch)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.want, verr.Message)
			assert.False(t, svc.Status().Busy)
			assert.Equal(t, 0, src.Calls())
		})
	}
}

func TestService_InvalidFetchModeRejected(t *testing.T) {
	src := tcommon.NewMockReportSource(nil)
	svc := newTestService(src)
	require.NoError(t, svc.SetFetchMode("weekly"))

	_, err := svc.StartFetch(context.Background())
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "mode", verr.Field)
	assert.Equal(t, 0, src.Calls())
}

func TestService_ExactDatePassedToSource(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)
	require.NoError(t, svc.ToggleFetchMode())
	require.NoError(t, svc.SetExactDate(" 2024-05-09 "))

	require.NoError(t, svc.Fetch(context.Background()))

	mode, date := src.LastRequest()
	assert.Equal(t, models.FetchExact, mode)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), date)
}

func TestService_ValidationErrorKeepsCurrentTable(t *testing.T) {
	svc := newTestService(tcommon.NewMockReportSource(tcommon.SampleRecordSet()))
	require.NoError(t, svc.Fetch(context.Background()))
	before, err := svc.Table()
	require.NoError(t, err)

	require.NoError(t, svc.SetFetchMode(models.FetchExact))
	require.NoError(t, svc.SetExactDate("bad"))
	assert.Error(t, svc.Fetch(context.Background()))

	after, err := svc.Table()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_FailureKeepsPreviousRecordSet(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)
	require.NoError(t, svc.Fetch(context.Background()))
	firstID := svc.Status().LastFetchID

	src.Set(nil, errors.New("report server returned 503"))
	err := svc.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "report server returned 503", err.Error())

	st := svc.Status()
	assert.False(t, st.Busy, "controls re-enabled after failure")
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, firstID, st.LastFetchID)

	_, err = svc.Table()
	assert.NoError(t, err)
}

func TestService_SuccessWithEmptyReplacesAndShowsNoData(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)
	require.NoError(t, svc.Fetch(context.Background()))

	src.Set(models.NewRecordSet(time.Time{}, nil, nil), nil)
	require.NoError(t, svc.Fetch(context.Background()))

	_, err := svc.Table()
	assert.ErrorIs(t, err, table.ErrNoData)

	src.Set(nil, nil)
	require.NoError(t, svc.Fetch(context.Background()))
	assert.True(t, svc.Status().Loaded)
	assert.Equal(t, 0, svc.Status().Records)
}

func TestService_ControlsDisabledWhileFetching(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	src.Release = make(chan struct{})
	svc := newTestService(src)

	results, err := svc.StartFetch(context.Background())
	require.NoError(t, err)
	assert.True(t, svc.Status().Busy)

	_, err = svc.StartFetch(context.Background())
	assert.ErrorIs(t, err, ErrFetchInFlight)
	assert.ErrorIs(t, svc.ToggleColumnMode(), ErrFetchInFlight)
	assert.ErrorIs(t, svc.SetColumnMode(models.ColumnModeFull), ErrFetchInFlight)
	assert.ErrorIs(t, svc.ToggleHideZeroChange(), ErrFetchInFlight)
	assert.ErrorIs(t, svc.SetHideZeroChange(true), ErrFetchInFlight)
	assert.ErrorIs(t, svc.ToggleFetchMode(), ErrFetchInFlight)
	assert.ErrorIs(t, svc.SetFetchMode(models.FetchExact), ErrFetchInFlight)
	assert.ErrorIs(t, svc.SetExactDate("2024-01-01"), ErrFetchInFlight)
	assert.Equal(t, models.DefaultViewConfig(), svc.Status().View)

	close(src.Release)
	result := <-results
	_, open := <-results
	assert.False(t, open, "result channel closed after one message")

	require.NoError(t, svc.Complete(result))
	assert.False(t, svc.Status().Busy)
	assert.NoError(t, svc.ToggleColumnMode())
	assert.Equal(t, 1, src.Calls())
}

func TestService_StaleResultIgnored(t *testing.T) {
	svc := newTestService(tcommon.NewMockReportSource(tcommon.SampleRecordSet()))

	err := svc.Complete(models.FetchResult{ID: "not-pending", RecordSet: tcommon.SampleRecordSet()})
	assert.NoError(t, err)
	assert.False(t, svc.Status().Loaded)
}

func TestService_ContextCancelledDuringFetch(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	src.Release = make(chan struct{})
	svc := newTestService(src)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := svc.StartFetch(ctx)
	require.NoError(t, err)
	cancel()

	err = svc.Complete(<-results)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.Status().Busy)
	assert.False(t, svc.Status().Loaded)
}

func TestService_TableDerivedFreshOnEveryCall(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	svc := newTestService(src)
	require.NoError(t, svc.Fetch(context.Background()))

	first, err := svc.Table()
	require.NoError(t, err)
	second, err := svc.Table()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)

	first.Rows[0].Cells[1] = "MUTATED"
	third, err := svc.Table()
	require.NoError(t, err)
	assert.Equal(t, "AAA", third.Rows[0].Cells[1], "a caller's edits never reach later tables")
	assert.Equal(t, second, third)
}
