package models

// Classification is the advisory emphasis of a data row
type Classification string

const (
	ClassNeutral  Classification = "neutral"
	ClassIncrease Classification = "increase"
	ClassDecrease Classification = "decrease"
)

// RowKind distinguishes data rows from issuer-group separators
type RowKind int

const (
	RowData RowKind = iota
	RowSeparator
)

// TableRow is one presentation row. Separator rows carry no sequence or class.
type TableRow struct {
	Kind     RowKind
	Sequence int
	Cells    []string
	Class    Classification
}

// IsSeparator reports whether the row marks an issuer-group boundary
func (r TableRow) IsSeparator() bool {
	return r.Kind == RowSeparator
}

// DerivedTable is the filtered, grouped, formatted and classified view of a record set
type DerivedTable struct {
	Columns []string
	Kinds   []ColumnKind
	Rows    []TableRow
}

// DataRows counts rows that came from records
func (t *DerivedTable) DataRows() int {
	n := 0
	for _, r := range t.Rows {
		if !r.IsSeparator() {
			n++
		}
	}
	return n
}

// Separators counts issuer-group separator rows
func (t *DerivedTable) Separators() int {
	return len(t.Rows) - t.DataRows()
}
