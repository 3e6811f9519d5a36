package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVWriter writes results in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.write([]string{"round", "protocol", "target", "port", "found", "username", "password", "attempted", "total", "seconds"})
}

func (c *CSVWriter) WriteResult(e *Entry) error {
	return c.write([]string{
		strconv.Itoa(e.Round),
		e.Protocol,
		e.Target,
		strconv.Itoa(e.Port),
		strconv.FormatBool(e.Found),
		e.Username,
		e.Password,
		strconv.Itoa(e.Attempted),
		strconv.Itoa(e.Total),
		fmt.Sprintf("%.3f", e.Duration.Seconds()),
	})
}

// write flushes every row; an interrupted run exits without a footer.
func (c *CSVWriter) write(row []string) error {
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
