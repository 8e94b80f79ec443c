package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bobmcallan/idxholders/internal/models"
)

// Styles holds the lipgloss styles used by the viewer
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Active    lipgloss.Style
	Inactive  lipgloss.Style
	Disabled  lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator lipgloss.Style
	Increase  lipgloss.Style
	Decrease  lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
}

// DefaultStyles returns the viewer palette
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Label:     lipgloss.NewStyle().Bold(true),
		Active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39")).Padding(0, 1),
		Inactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		Disabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		Header:    cell.Bold(true).Foreground(lipgloss.Color("39")),
		Cell:      cell,
		Separator: cell.Foreground(lipgloss.Color("240")),
		Increase:  cell.Foreground(lipgloss.Color("2")),
		Decrease:  cell.Foreground(lipgloss.Color("1")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Border:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// rowStyle picks the style for a derived row; the sequence column is centred
// and numeric columns are right-aligned.
func (s Styles) rowStyle(row models.TableRow, kind models.ColumnKind, col int) lipgloss.Style {
	var st lipgloss.Style
	switch {
	case row.IsSeparator():
		st = s.Separator
	case row.Class == models.ClassIncrease:
		st = s.Increase
	case row.Class == models.ClassDecrease:
		st = s.Decrease
	default:
		st = s.Cell
	}
	switch {
	case col == 0:
		return st.Align(lipgloss.Center)
	case kind == models.ColumnNumeric:
		return st.Align(lipgloss.Right)
	}
	return st
}
