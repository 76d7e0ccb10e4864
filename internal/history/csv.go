package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DefaultCSVFile is the log file name used by the desktop app
const DefaultCSVFile = "translations.csv"

// CSVLog is the durable append-only translation log. Appends are
// serialized so rows from concurrent writers never interleave.
type CSVLog struct {
	path string
	mu   sync.Mutex
}

// NewCSVLog creates a log writing to path; the file is created on the
// first append
func NewCSVLog(path string) *CSVLog {
	if path == "" {
		path = DefaultCSVFile
	}
	return &CSVLog{path: path}
}

// Path returns the log file location
func (l *CSVLog) Path() string {
	return l.path
}

// Append writes one row to the end of the log
func (l *CSVLog) Append(_ context.Context, r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Dir(l.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open translation log: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(r.Row()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write translation log: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write translation log: %w", err)
	}

	return f.Close()
}

// ReadCSV parses a translation log back into records, oldest first
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open translation log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

func readRecords(rd io.Reader) ([]Record, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = 5

	var records []Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read translation log: %w", err)
		}
		rec, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
}
