package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/maxvaer/brutecli/internal/config"
)

// JobFunc runs one validated job and reports whether credentials were found.
type JobFunc func(ctx context.Context, round int, job config.Job) (found bool, err error)

// JobError ties an error to the position of its job in the batch file.
type JobError struct {
	Index int // 1-based
	Err   error
}

func (e JobError) Error() string {
	return fmt.Sprintf("job #%d: %v", e.Index, e.Err)
}

func (e JobError) Unwrap() error { return e.Err }

// RoundReport summarizes one pass over the job list.
type RoundReport struct {
	Round  int
	Jobs   int
	Ran    int
	Found  int
	Errors []JobError
}

// Scheduler runs every record in order, once or forever with a delay
// between rounds. Jobs never overlap.
type Scheduler struct {
	Records []Record
	Run     JobFunc
	Loop    bool
	Delay   time.Duration

	OnRoundStart func(round int)
	OnJobError   func(round int, err JobError)
	OnRound      func(report RoundReport)
}

// Start runs rounds until one completes with Loop unset, or ctx is done.
// It returns ctx.Err() when stopped by cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	for round := 1; ; round++ {
		report, err := s.round(ctx, round)
		if err != nil {
			return err
		}
		if s.OnRound != nil {
			s.OnRound(report)
		}
		if !s.Loop {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Delay):
		}
	}
}

func (s *Scheduler) round(ctx context.Context, round int) (RoundReport, error) {
	report := RoundReport{Round: round, Jobs: len(s.Records)}
	if s.OnRoundStart != nil {
		s.OnRoundStart(round)
	}

	for i, rec := range s.Records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		job, err := rec.Job()
		if err == nil {
			var found bool
			found, err = s.Run(ctx, round, job)
			if err == nil {
				report.Ran++
				if found {
					report.Found++
				}
				continue
			}
		}

		jobErr := JobError{Index: i + 1, Err: err}
		report.Errors = append(report.Errors, jobErr)
		if s.OnJobError != nil {
			s.OnJobError(round, jobErr)
		}
	}
	return report, nil
}
