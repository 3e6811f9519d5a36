// Package trial implements the per-protocol login attempt. Every variant
// answers a single question, "did this username and password work?", and
// folds connection, protocol, authentication and timeout failures into false.
package trial

import (
	"fmt"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/scanner"
)

// Trial attempts one credential pair against the job's target.
type Trial interface {
	scanner.Attempter
	Name() string
}

// Options holds settings shared by every trial of a run.
type Options struct {
	Proxy     string
	UserAgent string
}

// New builds the trial for job. Only misconfiguration is reported here;
// Attempt itself never returns an error.
func New(job config.Job, opts Options) (Trial, error) {
	switch job.Protocol {
	case config.SSH:
		return newSSHTrial(job, opts)
	case config.FTP:
		return newFTPTrial(job, opts)
	case config.HTTP:
		return newHTTPTrial(job, opts)
	default:
		return nil, fmt.Errorf("unsupported protocol %q", job.Protocol)
	}
}
