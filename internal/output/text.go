package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// TextWriter writes one human-readable line per job.
type TextWriter struct {
	w     io.Writer
	found *color.Color
	miss  *color.Color
	dim   *color.Color
}

// NewTextWriter creates a text output writer. If outputFile is empty, stdout
// is used. Files never get ANSI escapes.
func NewTextWriter(outputFile string, noColor bool) (*TextWriter, error) {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		noColor = true
	}
	t := &TextWriter{
		w:     w,
		found: color.New(color.FgGreen),
		miss:  color.New(color.FgRed),
		dim:   color.New(color.Faint),
	}
	if noColor {
		t.found.DisableColor()
		t.miss.DisableColor()
		t.dim.DisableColor()
	}
	return t, nil
}

func (t *TextWriter) WriteHeader() error {
	_, err := t.dim.Fprintln(t.w, "Proto  Target                 Result")
	return err
}

func (t *TextWriter) WriteResult(e *Entry) error {
	round := ""
	if e.Round > 0 {
		round = fmt.Sprintf("[round %d] ", e.Round)
	}
	addr := fmt.Sprintf("%s:%d", e.Target, e.Port)

	var result string
	if e.Found {
		result = t.found.Sprintf("FOUND %s:%s", e.Username, e.Password)
	} else {
		result = t.miss.Sprint("none")
	}

	_, err := fmt.Fprintf(t.w, "%s%-5s  %-21s  %s  (%d/%d in %s)\n",
		round, e.Protocol, addr, result,
		e.Attempted, e.Total, e.Duration.Round(time.Millisecond))
	return err
}

func (t *TextWriter) WriteFooter(stats Stats) error {
	_, err := t.dim.Fprintf(t.w,
		"\nJobs: %d | Found: %d | Attempts: %d | Duration: %s\n",
		stats.Jobs, stats.Found, stats.Attempts, stats.Duration.Round(time.Millisecond))
	return err
}

func (t *TextWriter) Close() error {
	if closer, ok := t.w.(io.Closer); ok && t.w != os.Stdout {
		return closer.Close()
	}
	return nil
}
