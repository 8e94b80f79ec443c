// Package tui is the interactive terminal surface for browsing shareholder-change reports.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/bobmcallan/idxholders/internal/interfaces"
	"github.com/bobmcallan/idxholders/internal/models"
	"github.com/bobmcallan/idxholders/internal/services/render"
	"github.com/bobmcallan/idxholders/internal/services/table"
)

// chromeHeight is the number of lines around the table viewport
const chromeHeight = 7

// fetchDoneMsg carries the single completion result of a background fetch
type fetchDoneMsg struct {
	result models.FetchResult
}

// Model is the bubbletea model of the report viewer
type Model struct {
	ctx    context.Context
	viewer interfaces.ViewerService
	styles Styles

	width    int
	height   int
	viewport viewport.Model

	dateInput   textinput.Model
	editingDate bool
	spinner     spinner.Model

	pending   <-chan models.FetchResult
	status    string
	statusErr bool
}

// New creates the viewer model
func New(ctx context.Context, viewer interfaces.ViewerService) Model {
	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD"
	di.CharLimit = 10
	di.Width = 12
	di.SetValue(viewer.Status().ExactDate)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		viewer:    viewer,
		styles:    DefaultStyles(),
		viewport:  viewport.New(80, 20),
		dateInput: di,
		spinner:   sp,
	}
}

// Run starts the interactive program and blocks until the user quits
func Run(ctx context.Context, viewer interfaces.ViewerService) error {
	p := tea.NewProgram(New(ctx, viewer), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// waitForFetch turns the result channel into a single message
func waitForFetch(results <-chan models.FetchResult) tea.Cmd {
	return func() tea.Msg {
		result, ok := <-results
		if !ok {
			return fetchDoneMsg{result: models.FetchResult{Err: errors.New("fetch ended without a result")}}
		}
		return fetchDoneMsg{result: result}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.refresh()
		return m, nil

	case fetchDoneMsg:
		m.pending = nil
		if err := m.viewer.Complete(msg.result); err != nil {
			m.setError(err)
		} else {
			st := m.viewer.Status()
			m.setInfo(fmt.Sprintf("Loaded %d records (report %s)", st.Records, orDash(st.ReportDate)))
		}
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.pending == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editingDate {
			return m.updateDateInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	// Controls are disabled while a fetch runs; scrolling still works.
	if m.viewer.Status().Busy {
		if msg.Type == tea.KeyRunes {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch key {
	case "f":
		results, err := m.viewer.StartFetch(m.ctx)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.pending = results
		m.setInfo("Fetching...")
		return m, tea.Batch(m.spinner.Tick, waitForFetch(results))
	case "m":
		m.apply(m.viewer.ToggleFetchMode())
		return m, nil
	case "e":
		if m.viewer.Status().FetchMode != models.FetchExact {
			m.status, m.statusErr = "Switch to exact-date mode (m) to edit the date", true
			return m, nil
		}
		m.editingDate = true
		return m, m.dateInput.Focus()
	case "s":
		m.apply(m.viewer.ToggleColumnMode())
		m.refresh()
		return m, nil
	case "z":
		m.apply(m.viewer.ToggleHideZeroChange())
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editingDate = false
		m.dateInput.Blur()
		m.apply(m.viewer.SetExactDate(strings.TrimSpace(m.dateInput.Value())))
		return m, nil
	case "esc":
		m.editingDate = false
		m.dateInput.Blur()
		m.dateInput.SetValue(m.viewer.Status().ExactDate)
		return m, nil
	}

	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

func (m *Model) apply(err error) {
	if err != nil {
		m.setError(err)
		return
	}
	m.status = ""
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) setInfo(s string) {
	m.status = s
	m.statusErr = false
}

// refresh re-derives the table into the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTable())
}

func (m Model) renderTable() string {
	tbl, err := m.viewer.Table()
	if err != nil {
		if errors.Is(err, table.ErrNoData) {
			return m.styles.Help.Render(render.NoDataMessage)
		}
		return m.styles.Error.Render(err.Error())
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.styles.Border).
		Headers(tbl.Columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return m.styles.Header
			}
			if row < 0 || row >= len(tbl.Rows) {
				return m.styles.Cell
			}
			var kind models.ColumnKind
			if col < len(tbl.Kinds) {
				kind = tbl.Kinds[col]
			}
			return m.styles.rowStyle(tbl.Rows[row], kind, col)
		})
	for _, r := range tbl.Rows {
		t.Row(r.Cells...)
	}
	return t.String()
}

// View renders the model.
func (m Model) View() string {
	st := m.viewer.Status()
	busy := st.Busy

	var b strings.Builder

	title := m.styles.Title.Render("IDX Shareholder Changes")
	if st.Loaded {
		title += m.styles.Help.Render(fmt.Sprintf("  report %s · %d records", orDash(st.ReportDate), st.Records))
	}
	b.WriteString(title + "\n")

	b.WriteString(m.styles.Label.Render("Fetch mode ") +
		m.toggle("Latest", st.FetchMode == models.FetchLatest, busy) +
		m.toggle("Exact date", st.FetchMode == models.FetchExact, busy) + "  ")
	if st.FetchMode == models.FetchExact && !busy {
		b.WriteString(m.dateInput.View())
	} else {
		b.WriteString(m.styles.Disabled.Render(st.ExactDate))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("View       ") +
		m.toggle("Simple", st.View.ColumnMode == models.ColumnModeSimple, busy) +
		m.toggle("Full", st.View.ColumnMode == models.ColumnModeFull, busy) + "  " +
		m.toggle("Hide zero Perubahan", st.View.HideZeroChange, busy) + "\n")

	b.WriteString(m.styles.Border.Render(strings.Repeat("─", max(m.width, 20))) + "\n")
	b.WriteString(m.viewport.View() + "\n")

	switch {
	case busy:
		b.WriteString(m.spinner.View() + " " + m.styles.Info.Render("Fetching..."))
	case m.statusErr:
		b.WriteString(m.styles.Error.Render(m.status))
	default:
		b.WriteString(m.styles.Info.Render(m.status))
	}
	b.WriteString("\n")

	if busy {
		b.WriteString(m.styles.Help.Render("controls disabled while fetching · ↑/↓ scroll · q quit"))
	} else if m.editingDate {
		b.WriteString(m.styles.Help.Render("enter confirm · esc cancel"))
	} else {
		b.WriteString(m.styles.Help.Render("f fetch · m latest/exact · e edit date · s simple/full · z hide zero · ↑/↓ scroll · q quit"))
	}

	return b.String()
}

func (m Model) toggle(label string, on, disabled bool) string {
	switch {
	case disabled:
		return m.styles.Disabled.Render(label)
	case on:
		return m.styles.Active.Render(label)
	}
	return m.styles.Inactive.Render(label)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
