package output

import (
	"encoding/json"
	"io"
	"os"
)

type jsonEntry struct {
	Round     int     `json:"round,omitempty"`
	Protocol  string  `json:"protocol"`
	Target    string  `json:"target"`
	Port      int     `json:"port"`
	Found     bool    `json:"found"`
	Username  string  `json:"username,omitempty"`
	Password  string  `json:"password,omitempty"`
	Attempted int     `json:"attempted"`
	Total     int     `json:"total"`
	Seconds   float64 `json:"seconds"`
}

// JSONWriter writes results as a JSON array. With an output file the array
// is rewritten after every result, so the file stays valid JSON even when
// the process exits before the footer.
type JSONWriter struct {
	w       io.Writer
	file    *os.File
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	j := &JSONWriter{w: os.Stdout}
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		j.w = f
		j.file = f
	}
	return j, nil
}

func (j *JSONWriter) WriteHeader() error {
	if j.file == nil {
		return nil
	}
	return j.rewrite()
}

func (j *JSONWriter) WriteResult(e *Entry) error {
	j.entries = append(j.entries, jsonEntry{
		Round:     e.Round,
		Protocol:  e.Protocol,
		Target:    e.Target,
		Port:      e.Port,
		Found:     e.Found,
		Username:  e.Username,
		Password:  e.Password,
		Attempted: e.Attempted,
		Total:     e.Total,
		Seconds:   e.Duration.Seconds(),
	})
	if j.file == nil {
		return nil
	}
	return j.rewrite()
}

func (j *JSONWriter) WriteFooter(_ Stats) error {
	if j.file != nil {
		return j.rewrite()
	}
	return j.encode()
}

// rewrite replaces the file contents with the current array.
func (j *JSONWriter) rewrite() error {
	if err := j.file.Truncate(0); err != nil {
		return err
	}
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return j.encode()
}

func (j *JSONWriter) encode() error {
	entries := j.entries
	if entries == nil {
		entries = []jsonEntry{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func (j *JSONWriter) Close() error {
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}
