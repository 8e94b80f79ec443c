// Package table derives the grouped, formatted and classified shareholder-change
// table from a parsed record set.
package table

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bobmcallan/idxholders/internal/models"
)

// ErrNoData is the terminal state for an empty record set or one emptied by filtering.
var ErrNoData = errors.New("no data to display")

// SeparatorCell is the placeholder written into every cell of a separator row
const SeparatorCell = "----------"

// Deriver turns a record set and view configuration into a DerivedTable.
// It holds no per-call state and is safe for concurrent use.
type Deriver struct {
	fields  models.FieldMap
	printer *message.Printer
}

// Option configures the deriver
type Option func(*Deriver)

// WithFields sets the column names used for sequence, issuer, holder and change
func WithFields(fields models.FieldMap) Option {
	return func(d *Deriver) {
		d.fields = fields
	}
}

// WithLocale sets the locale used for numeric grouping
func WithLocale(tag language.Tag) Option {
	return func(d *Deriver) {
		d.printer = message.NewPrinter(tag)
	}
}

// NewDeriver creates a deriver for IDX report columns formatted with Indonesian grouping.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{
		fields:  models.DefaultFieldMap(),
		printer: message.NewPrinter(language.Indonesian),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fields returns the configured field map
func (d *Deriver) Fields() models.FieldMap {
	return d.fields
}

// Derive builds the presentation table. Rows keep their input order; sequence
// numbers are assigned after filtering and separators never consume one.
func (d *Deriver) Derive(rs *models.RecordSet, view models.ViewConfig) (*models.DerivedTable, error) {
	if rs.Len() == 0 {
		return nil, ErrNoData
	}

	records := rs.Records
	if view.HideZeroChange {
		records = d.dropZeroChange(records)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	columns := d.VisibleColumns(rs, view.ColumnMode)
	tbl := &models.DerivedTable{
		Columns: make([]string, len(columns)),
		Kinds:   make([]models.ColumnKind, len(columns)),
		Rows:    make([]models.TableRow, 0, len(records)),
	}
	for i, c := range columns {
		tbl.Columns[i] = c.Name
		tbl.Kinds[i] = c.Kind
	}

	var prevIssuer string
	for i, rec := range records {
		seq := i + 1
		issuer := models.PlainString(rec[d.fields.Issuer])
		if i > 0 && issuer != prevIssuer {
			tbl.Rows = append(tbl.Rows, separatorRow(len(columns)))
		}

		cells := make([]string, len(columns))
		for j, col := range columns {
			if col.Name == d.fields.Sequence {
				cells[j] = d.FormatCell(col, seq)
				continue
			}
			v, _ := rec.Get(col.Name)
			cells[j] = d.FormatCell(col, v)
		}

		change, _ := rec.Get(d.fields.Change)
		tbl.Rows = append(tbl.Rows, models.TableRow{
			Kind:     models.RowData,
			Sequence: seq,
			Cells:    cells,
			Class:    Classify(change),
		})
		prevIssuer = issuer
	}

	return tbl, nil
}

// VisibleColumns resolves the column list for a mode. The sequence column is
// always first and always numeric because the deriver assigns it.
func (d *Deriver) VisibleColumns(rs *models.RecordSet, mode models.ColumnMode) []models.Column {
	seq := models.Column{Name: d.fields.Sequence, Kind: models.ColumnNumeric}
	columns := []models.Column{seq}

	if mode == models.ColumnModeFull {
		for _, c := range rs.Columns {
			if c.Name != d.fields.Sequence {
				columns = append(columns, c)
			}
		}
		return columns
	}

	for _, name := range d.fields.SimpleColumns()[1:] {
		if c, ok := rs.Column(name); ok && name != d.fields.Sequence {
			columns = append(columns, c)
		}
	}
	return columns
}

// dropZeroChange removes records whose change is missing or numerically zero.
// Non-numeric change values are kept.
func (d *Deriver) dropZeroChange(records []models.Record) []models.Record {
	kept := make([]models.Record, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get(d.fields.Change)
		if !ok || models.IsMissing(v) {
			continue
		}
		if f, isNum := models.ToFloat(v); isNum && f == 0 {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func separatorRow(width int) models.TableRow {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = SeparatorCell
	}
	return models.TableRow{Kind: models.RowSeparator, Cells: cells}
}
