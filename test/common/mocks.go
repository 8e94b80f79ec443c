// Package common provides shared test infrastructure
package common

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/idxholders/internal/interfaces"
	"github.com/bobmcallan/idxholders/internal/models"
)

var _ interfaces.ReportSource = (*MockReportSource)(nil)

// MockReportSource implements ReportSource for testing
type MockReportSource struct {
	RecordSet *models.RecordSet
	Err       error
	// Release, when set, holds every call until it is closed or the context ends
	Release chan struct{}

	mu       sync.Mutex
	calls    int
	lastMode models.FetchMode
	lastDate time.Time
}

// NewMockReportSource creates a mock returning rs
func NewMockReportSource(rs *models.RecordSet) *MockReportSource {
	return &MockReportSource{RecordSet: rs}
}

func (m *MockReportSource) RetrieveAndParse(ctx context.Context, mode models.FetchMode, date time.Time) (*models.RecordSet, error) {
	m.mu.Lock()
	m.calls++
	m.lastMode = mode
	m.lastDate = date
	release := m.Release
	rs, err := m.RecordSet, m.Err
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Calls returns how many times the source was invoked
func (m *MockReportSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the mode and date of the most recent call
func (m *MockReportSource) LastRequest() (models.FetchMode, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMode, m.lastDate
}

// Set replaces the record set and error returned by later calls
func (m *MockReportSource) Set(rs *models.RecordSet, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordSet = rs
	m.Err = err
}

// SampleRecordSet returns a small IDX-shaped report with two issuers
func SampleRecordSet() *models.RecordSet {
	return models.NewRecordSet(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		[]models.Column{
			{Name: "No"},
			{Name: "Kode Efek"},
			{Name: "Nama Pemegang Rekening Efek"},
			{Name: "Jumlah Saham Sebelum"},
			{Name: "Perubahan"},
		},
		[]models.Record{
			{"No": 1, "Kode Efek": "AAA", "Nama Pemegang Rekening Efek": "PT Satu", "Jumlah Saham Sebelum": 1234567, "Perubahan": 100},
			{"No": 2, "Kode Efek": "AAA", "Nama Pemegang Rekening Efek": "PT Dua", "Jumlah Saham Sebelum": 2500000.5, "Perubahan": 0},
			{"No": 3, "Kode Efek": "BBB", "Nama Pemegang Rekening Efek": "PT Tiga", "Jumlah Saham Sebelum": 900, "Perubahan": -50},
		})
}
