package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/idxholders/internal/models"
	"github.com/bobmcallan/idxholders/internal/services/table"
	"github.com/bobmcallan/idxholders/internal/services/viewer"
	tcommon "github.com/bobmcallan/idxholders/test/common"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, src *tcommon.MockReportSource) (Model, *viewer.Service) {
	t.Helper()
	svc := viewer.NewService(src, table.NewDeriver(), nil)
	m := New(context.Background(), svc)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), svc
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyMsg(key))
	return updated.(Model), cmd
}

// finishFetch reads the single pending result and feeds it back like the runtime would
func finishFetch(t *testing.T, m Model) Model {
	t.Helper()
	require.NotNil(t, m.pending, "expected a fetch in flight")
	result := <-m.pending
	updated, _ := m.Update(fetchDoneMsg{result: result})
	return updated.(Model)
}

func TestModel_InitialViewHasNoData(t *testing.T) {
	m, _ := newTestModel(t, tcommon.NewMockReportSource(nil))

	out := m.View()
	assert.Contains(t, out, "No data to display")
	assert.Contains(t, out, "Latest")
	assert.Contains(t, out, "f fetch")
}

func TestModel_FetchLoadsTable(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	m, svc := newTestModel(t, src)

	m, cmd := press(t, m, "f")
	assert.NotNil(t, cmd)

	m = finishFetch(t, m)
	assert.Nil(t, m.pending)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, "Loaded 3 records")

	out := m.View()
	assert.Contains(t, out, "PT Satu")
	assert.Contains(t, out, table.SeparatorCell)
	assert.NotContains(t, out, "Jumlah Saham Sebelum")
	assert.Equal(t, 1, src.Calls())
	assert.True(t, svc.Status().Loaded)
}

func TestModel_TogglesRederive(t *testing.T) {
	m, svc := newTestModel(t, tcommon.NewMockReportSource(tcommon.SampleRecordSet()))
	m, _ = press(t, m, "f")
	m = finishFetch(t, m)

	m, _ = press(t, m, "s")
	assert.Equal(t, models.ColumnModeFull, svc.Status().View.ColumnMode)
	assert.Contains(t, m.View(), "Jumlah Saham Sebelum")

	m, _ = press(t, m, "z")
	assert.True(t, svc.Status().View.HideZeroChange)
	assert.NotContains(t, m.View(), "PT Dua")
}

func TestModel_ControlsIgnoredWhileFetching(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	src.Release = make(chan struct{})
	m, svc := newTestModel(t, src)

	m, _ = press(t, m, "f")
	require.True(t, svc.Status().Busy)
	assert.Contains(t, m.View(), "Fetching...")

	m, _ = press(t, m, "s")
	m, _ = press(t, m, "z")
	m, _ = press(t, m, "m")
	m, cmd := press(t, m, "f")
	assert.Nil(t, cmd)

	st := svc.Status()
	assert.Equal(t, models.DefaultViewConfig(), st.View)
	assert.Equal(t, models.FetchLatest, st.FetchMode)

	close(src.Release)
	m = finishFetch(t, m)
	assert.False(t, svc.Status().Busy)
	assert.Equal(t, 1, src.Calls())
}

func TestModel_FailedFetchShowsError(t *testing.T) {
	src := tcommon.NewMockReportSource(tcommon.SampleRecordSet())
	m, _ := newTestModel(t, src)
	m, _ = press(t, m, "f")
	m = finishFetch(t, m)

	src.Set(nil, assert.AnError)
	m, _ = press(t, m, "f")
	m = finishFetch(t, m)

	assert.True(t, m.statusErr)
	assert.Equal(t, assert.AnError.Error(), m.status)
	assert.Contains(t, m.View(), "PT Satu", "previous table is kept")
}

func TestModel_EditExactDate(t *testing.T) {
	m, svc := newTestModel(t, tcommon.NewMockReportSource(nil))

	m, _ = press(t, m, "e")
	assert.False(t, m.editingDate, "date is read-only in latest mode")
	assert.True(t, m.statusErr)

	m, _ = press(t, m, "m")
	require.Equal(t, models.FetchExact, svc.Status().FetchMode)

	m, _ = press(t, m, "e")
	require.True(t, m.editingDate)
	m.dateInput.SetValue("2024-05-10")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.False(t, m.editingDate)
	assert.Equal(t, "2024-05-10", svc.Status().ExactDate)
}

func TestModel_InvalidDateRejectedOnFetch(t *testing.T) {
	src := tcommon.NewMockReportSource(nil)
	m, svc := newTestModel(t, src)
	require.NoError(t, svc.SetFetchMode(models.FetchExact))
	require.NoError(t, svc.SetExactDate("10/05/2024"))

	m, cmd := press(t, m, "f")
	assert.Nil(t, cmd)
	assert.Nil(t, m.pending)
	assert.True(t, m.statusErr)
	assert.Equal(t, "Date format must be YYYY-MM-DD", m.status)
	assert.Equal(t, 0, src.Calls())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, tcommon.NewMockReportSource(nil))
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
