package output

import (
	"fmt"
	"time"
)

// Entry is the record written for one finished job.
type Entry struct {
	Round     int // 0 outside batch mode
	Protocol  string
	Target    string
	Port      int
	Found     bool
	Username  string
	Password  string
	Attempted int
	Total     int
	Duration  time.Duration
}

// Stats holds aggregate statistics across written entries.
type Stats struct {
	Jobs     int
	Found    int
	Attempts int
	Duration time.Duration
}

// Add folds e into the totals.
func (s *Stats) Add(e *Entry) {
	s.Jobs++
	s.Attempts += e.Attempted
	s.Duration += e.Duration
	if e.Found {
		s.Found++
	}
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(entry *Entry) error
	WriteFooter(stats Stats) error
	Close() error
}

// NewWriter returns the writer for format ("text", "json" or "csv").
func NewWriter(format, outputFile string, noColor bool) (Writer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(outputFile, noColor)
	case "json":
		return NewJSONWriter(outputFile)
	case "csv":
		return NewCSVWriter(outputFile)
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or csv)", format)
	}
}
