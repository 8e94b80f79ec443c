// Package render writes derived tables as plain text and spreadsheets.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bobmcallan/idxholders/internal/models"
)

// NoDataMessage is shown in place of a table when derivation yields no rows
const NoDataMessage = "No data to display"

// TextOptions controls plain-text output
type TextOptions struct {
	Color bool
}

var classColors = map[models.Classification]text.Colors{
	models.ClassIncrease: {text.FgGreen},
	models.ClassDecrease: {text.FgRed},
}

// WriteText renders tbl as a light-bordered text table. A nil table writes
// the no-data message.
func WriteText(w io.Writer, tbl *models.DerivedTable, opts TextOptions) error {
	if tbl == nil {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	header := make(table.Row, len(tbl.Columns))
	configs := make([]table.ColumnConfig, len(tbl.Columns))
	for i, name := range tbl.Columns {
		header[i] = name
		configs[i] = table.ColumnConfig{Number: i + 1, Align: alignFor(tbl, i)}
	}

	t := table.NewWriter()
	t.AppendHeader(header)
	for _, r := range tbl.Rows {
		row := make(table.Row, len(r.Cells))
		colors, colored := classColors[r.Class]
		for i, cell := range r.Cells {
			if opts.Color && colored {
				row[i] = colors.Sprint(cell)
			} else {
				row[i] = cell
			}
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(configs)
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

func alignFor(tbl *models.DerivedTable, i int) text.Align {
	if i == 0 {
		return text.AlignCenter
	}
	if i < len(tbl.Kinds) && tbl.Kinds[i] == models.ColumnNumeric {
		return text.AlignRight
	}
	return text.AlignLeft
}
