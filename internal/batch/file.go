// Package batch parses job-list files and runs them in rounds.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"

	"github.com/maxvaer/brutecli/internal/config"
)

// Record is one entry of a batch file. Every key is optional at parse time so
// that a missing key can be reported per job instead of failing the file.
type Record struct {
	Protocol  *string  `json:"protocol"`
	Target    *string  `json:"target"`
	Port      *int     `json:"port"`
	Threads   *int     `json:"threads"`
	Timeout   *float64 `json:"timeout"` // seconds
	Username  *string  `json:"username"`
	UserList  *string  `json:"userlist"`
	PassList  *string  `json:"passlist"`
	URL       *string  `json:"url"`
	UserField *string  `json:"user_field"`
	PassField *string  `json:"pass_field"`
	Success   *string  `json:"success"`

	// set when the record itself could not be decoded
	err error
}

// ErrNoJobs is returned for a batch file that parses but lists nothing.
var ErrNoJobs = errors.New("batch file contains no jobs")

// ParseFile reads a batch file. Files ending in .toml hold a [[jobs]] array;
// everything else is read as YAML (and therefore JSON) holding a top-level
// list. Any error returned here is fatal for the whole batch.
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var raw []json.RawMessage
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		raw, err = tomlRecords(data)
	} else {
		raw, err = yamlRecords(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoJobs)
	}

	records := make([]Record, len(raw))
	for i, msg := range raw {
		records[i] = decodeRecord(msg)
	}
	return records, nil
}

func yamlRecords(data []byte) ([]json.RawMessage, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(js, &raw); err != nil {
		return nil, errors.New("top level must be a list of jobs")
	}
	return raw, nil
}

func tomlRecords(data []byte) ([]json.RawMessage, error) {
	var doc struct {
		Jobs []map[string]any `toml:"jobs"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}
	raw := make([]json.RawMessage, 0, len(doc.Jobs))
	for _, job := range doc.Jobs {
		b, err := json.Marshal(job)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return raw, nil
}

func decodeRecord(msg json.RawMessage) Record {
	var r Record
	if err := json.Unmarshal(msg, &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return Record{err: &config.Error{Key: typeErr.Field, Reason: fmt.Sprintf("has wrong type %s", typeErr.Value)}}
		}
		return Record{err: &config.Error{Key: "job", Reason: "is not a mapping of keys"}}
	}
	return r
}

// Job converts the record into a normalized, validated job. Required keys
// are protocol, target, threads and timeout; http jobs also need url,
// user_field, pass_field and success.
func (r Record) Job() (config.Job, error) {
	if r.err != nil {
		return config.Job{}, r.err
	}
	switch {
	case r.Protocol == nil:
		return config.Job{}, config.Missing("protocol")
	case r.Target == nil:
		return config.Job{}, config.Missing("target")
	case r.Threads == nil:
		return config.Job{}, config.Missing("threads")
	case r.Timeout == nil:
		return config.Job{}, config.Missing("timeout")
	}

	job := config.Job{
		Protocol:  config.Protocol(*r.Protocol),
		Target:    *r.Target,
		Threads:   *r.Threads,
		Timeout:   time.Duration(*r.Timeout * float64(time.Second)),
		Port:      deref(r.Port),
		Username:  deref(r.Username),
		UserList:  deref(r.UserList),
		PassList:  deref(r.PassList),
		URL:       deref(r.URL),
		UserField: deref(r.UserField),
		PassField: deref(r.PassField),
		Success:   deref(r.Success),
	}.Normalize()

	if err := job.Validate(); err != nil {
		return config.Job{}, err
	}
	return job, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
