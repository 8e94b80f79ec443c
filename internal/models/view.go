package models

import "time"

// ColumnMode selects which report columns are visible
type ColumnMode string

const (
	ColumnModeSimple ColumnMode = "simple"
	ColumnModeFull   ColumnMode = "full"
)

// FetchMode selects which report the source returns
type FetchMode string

const (
	FetchLatest FetchMode = "latest"
	FetchExact  FetchMode = "exact"
)

// DateLayout is the user-facing exact-date format
const DateLayout = "2006-01-02"

// ViewConfig holds the user toggles that shape a derived table
type ViewConfig struct {
	ColumnMode     ColumnMode `json:"column_mode"`
	HideZeroChange bool       `json:"hide_zero_change"`
}

// DefaultViewConfig returns the startup view: simple columns, zero-change rows shown
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		ColumnMode:     ColumnModeSimple,
		HideZeroChange: false,
	}
}

// FieldMap names the report columns that play each role in the table.
type FieldMap struct {
	Sequence string `toml:"sequence"`
	Issuer   string `toml:"issuer"`
	Holder   string `toml:"holder"`
	Change   string `toml:"change"`
}

// DefaultFieldMap returns the column names used by IDX shareholder-change reports
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Sequence: "No",
		Issuer:   "Kode Efek",
		Holder:   "Nama Pemegang Rekening Efek",
		Change:   "Perubahan",
	}
}

// SimpleColumns returns the simple-view allow-list in display order
func (f FieldMap) SimpleColumns() []string {
	return []string{f.Sequence, f.Issuer, f.Holder, f.Change}
}

// FetchRequest is a user-initiated fetch, validated before the source is called
type FetchRequest struct {
	Mode FetchMode `validate:"required,oneof=latest exact"`
	Date string
}

// FetchResult is the single completion message of one fetch
type FetchResult struct {
	ID        string
	Mode      FetchMode
	Date      time.Time
	RecordSet *RecordSet
	Err       error
	Elapsed   time.Duration
}

// ValidationError is a local input error raised before any fetch starts
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
