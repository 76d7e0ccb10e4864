package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the second-resolution timestamp format of the log
const TimeLayout = "2006-01-02 15:04:05"

// Record is one successful translation
type Record struct {
	Timestamp      time.Time
	SourceText     string
	TranslatedText string
	SourceCode     string
	TargetCode     string
}

// NewRecord creates a record stamped at now, truncated to the second
func NewRecord(now time.Time, sourceText, translatedText, sourceCode, targetCode string) Record {
	return Record{
		Timestamp:      now.Truncate(time.Second),
		SourceText:     sourceText,
		TranslatedText: translatedText,
		SourceCode:     sourceCode,
		TargetCode:     targetCode,
	}
}

// Row returns the five log fields in order
func (r Record) Row() []string {
	return []string{
		r.Timestamp.Format(TimeLayout),
		r.SourceText,
		r.TranslatedText,
		r.SourceCode,
		r.TargetCode,
	}
}

// ParseRow is the inverse of Row. Timestamps are read in local time, the
// zone they were written in.
func ParseRow(row []string) (Record, error) {
	if len(row) != 5 {
		return Record{}, fmt.Errorf("expected 5 fields, got %d", len(row))
	}
	ts, err := time.ParseInLocation(TimeLayout, row[0], time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("invalid timestamp %q: %w", row[0], err)
	}
	return Record{
		Timestamp:      ts,
		SourceText:     row[1],
		TranslatedText: row[2],
		SourceCode:     row[3],
		TargetCode:     row[4],
	}, nil
}

// Sink receives every successful translation
type Sink interface {
	Append(ctx context.Context, r Record) error
}

// MultiSink appends to every sink, even when an earlier one fails
type MultiSink []Sink

// Append implements Sink
func (m MultiSink) Append(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
