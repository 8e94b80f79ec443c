// Package models defines data structures for idxholders
package models

import (
	"sort"
	"time"
)

// ColumnKind is the value domain of a report column across the whole record set
type ColumnKind string

const (
	ColumnText    ColumnKind = "text"
	ColumnNumeric ColumnKind = "numeric"
)

// Column describes one named column of a shareholder-change report
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind,omitempty"`
}

// Record is one parsed report row keyed by column name.
// Values are nil, string, bool, json.Number or a Go numeric type.
type Record map[string]any

// Get returns the value stored under name. Missing and nil values both report false.
func (r Record) Get(name string) (any, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// RecordSet is the immutable, ordered output of one fetch+parse cycle.
type RecordSet struct {
	ReportDate time.Time `json:"report_date"`
	Columns    []Column  `json:"columns"`
	Records    []Record  `json:"records"`
}

// NewRecordSet builds a record set over records. Columns declared without a Kind
// are inferred from the values they hold; fields present on records but not
// declared are appended in name order so the column list stays deterministic.
func NewRecordSet(reportDate time.Time, columns []Column, records []Record) *RecordSet {
	cols := make([]Column, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		cols = append(cols, c)
	}

	var extra []string
	for _, rec := range records {
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		cols = append(cols, Column{Name: name})
	}

	for i := range cols {
		if cols[i].Kind == "" {
			cols[i].Kind = InferKind(cols[i].Name, records)
		}
	}

	return &RecordSet{
		ReportDate: reportDate,
		Columns:    cols,
		Records:    records,
	}
}

// InferKind reports ColumnNumeric when the column holds at least one value and
// every present value is numeric.
func InferKind(name string, records []Record) ColumnKind {
	found := false
	for _, rec := range records {
		v, ok := rec.Get(name)
		if !ok {
			continue
		}
		if _, isNum := ToFloat(v); !isNum {
			return ColumnText
		}
		found = true
	}
	if !found {
		return ColumnText
	}
	return ColumnNumeric
}

// Len returns the number of records
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Column looks up a column by name
func (rs *RecordSet) Column(name string) (Column, bool) {
	if rs == nil {
		return Column{}, false
	}
	for _, c := range rs.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the record set carries the named column
func (rs *RecordSet) HasColumn(name string) bool {
	_, ok := rs.Column(name)
	return ok
}
