// Package snapshot provides a ReportSource over parsed report snapshots on disk.
//
// The external report parser writes one JSON document per report date as
// <dir>/<YYYYMMDD>.json:
//
//	{
//	  "report_date": "2024-05-10",
//	  "columns": [{"name": "Kode Efek", "kind": "text"}, {"name": "Perubahan", "kind": "numeric"}],
//	  "records": [{"Kode Efek": "AAA", "Perubahan": 100}]
//	}
//
// "columns" is optional; when omitted the column order follows the first
// appearance of each key across records and kinds are inferred.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bobmcallan/idxholders/internal/common"
	"github.com/bobmcallan/idxholders/internal/interfaces"
	"github.com/bobmcallan/idxholders/internal/models"
)

// ErrNoReport is returned when no snapshot matches the request
var ErrNoReport = errors.New("no report available")

const fileLayout = "20060102"

var snapshotName = regexp.MustCompile(`^\d{8}\.json$`)

var _ interfaces.ReportSource = (*Source)(nil)

// Source implements ReportSource over a snapshot directory
type Source struct {
	dir    string
	logger *common.Logger
}

// Option configures the source
type Option func(*Source)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a source reading snapshots from dir
func NewSource(dir string, opts ...Option) *Source {
	s := &Source{
		dir:    dir,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type document struct {
	ReportDate string            `json:"report_date"`
	Columns    []models.Column   `json:"columns"`
	Records    []json.RawMessage `json:"records"`
}

// RetrieveAndParse loads the latest snapshot, or the one for date in exact mode.
func (s *Source) RetrieveAndParse(ctx context.Context, mode models.FetchMode, date time.Time) (*models.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var path string
	switch mode {
	case models.FetchLatest:
		p, err := s.latestPath()
		if err != nil {
			return nil, err
		}
		path = p
	case models.FetchExact:
		if date.IsZero() {
			return nil, fmt.Errorf("exact fetch requires a date")
		}
		path = filepath.Join(s.dir, date.Format(fileLayout)+".json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for %s", ErrNoReport, date.Format(models.DateLayout))
		}
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", mode)
	}

	start := time.Now()
	rs, err := s.load(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Snapshot load failed")
		return nil, err
	}

	s.logger.Info().
		Str("path", path).
		Str("mode", string(mode)).
		Int("records", rs.Len()).
		Int("columns", len(rs.Columns)).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot loaded")

	return rs, nil
}

// latestPath returns the newest YYYYMMDD.json in the directory
func (s *Source) latestPath() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: directory %s does not exist", ErrNoReport, s.dir)
		}
		return "", fmt.Errorf("failed to list reports: %w", err)
	}

	latest := ""
	for _, e := range entries {
		if e.IsDir() || !snapshotName.MatchString(e.Name()) {
			continue
		}
		if _, err := time.Parse(fileLayout, e.Name()[:8]); err != nil {
			continue
		}
		if e.Name() > latest {
			latest = e.Name()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoReport, s.dir)
	}
	return filepath.Join(s.dir, latest), nil
}

func (s *Source) load(ctx context.Context, path string) (*models.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", filepath.Base(path), err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", filepath.Base(path), err)
	}

	reportDate, err := reportDateOf(doc.ReportDate, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(doc.Records))
	var order []string
	seen := make(map[string]bool)
	for i, raw := range doc.Records {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, keys, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d of %s: %w", i+1, filepath.Base(path), err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
		records = append(records, rec)
	}

	columns := doc.Columns
	if len(columns) == 0 {
		columns = make([]models.Column, len(order))
		for i, name := range order {
			columns[i] = models.Column{Name: name}
		}
	}

	return models.NewRecordSet(reportDate, columns, records), nil
}

func reportDateOf(declared, filename string) (time.Time, error) {
	if declared != "" {
		d, err := time.Parse(models.DateLayout, declared)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid report_date %q in %s", declared, filename)
		}
		return d, nil
	}
	if len(filename) >= 8 {
		if d, err := time.Parse(fileLayout, filename[:8]); err == nil {
			return d, nil
		}
	}
	return time.Time{}, nil
}

// decodeRecord decodes one JSON object keeping its key order. Numbers stay
// json.Number so integers and decimals keep their form.
func decodeRecord(raw json.RawMessage) (models.Record, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	rec := models.Record{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = v
	}

	return rec, keys, nil
}
