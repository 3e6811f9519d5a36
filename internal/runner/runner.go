package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/maxvaer/brutecli/internal/batch"
	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/hook"
	"github.com/maxvaer/brutecli/internal/output"
	"github.com/maxvaer/brutecli/internal/scanner"
	"github.com/maxvaer/brutecli/internal/store"
	"github.com/maxvaer/brutecli/internal/trial"
	"github.com/maxvaer/brutecli/internal/wordlist"
)

// Runner executes jobs and owns the collaborators shared across them: the
// result writer, the on-success hook and the history store.
type Runner struct {
	opts    *config.Options
	console *output.Console
	writer  output.Writer
	hook    *hook.Runner
	store   *store.Store
	stats   output.Stats

	// pause toggle on a terminal stdin; off in tests
	interactive bool
}

// New creates a Runner from run-wide options. Close must be called to flush
// the result file and the history database.
func New(opts *config.Options, console *output.Console) (*Runner, error) {
	r := &Runner{opts: opts, console: console, interactive: true}

	if opts.OutputFile != "" {
		w, err := output.NewWriter(opts.OutputFormat, opts.OutputFile, opts.NoColor)
		if err != nil {
			return nil, fmt.Errorf("creating output writer: %w", err)
		}
		if err := w.WriteHeader(); err != nil {
			w.Close()
			return nil, err
		}
		r.writer = w
	}

	if opts.OnSuccessCmd != "" {
		r.hook = hook.NewRunner(opts.OnSuccessCmd, console.Stderr())
	}

	if opts.DBPath != "" {
		s, err := store.Open(opts.DBPath)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.store = s
	}
	return r, nil
}

// Close writes the result footer and releases files.
func (r *Runner) Close() error {
	var errs []error
	if r.writer != nil {
		errs = append(errs, r.writer.WriteFooter(r.stats), r.writer.Close())
		r.writer = nil
	}
	if r.store != nil {
		errs = append(errs, r.store.Close())
		r.store = nil
	}
	return errors.Join(errs...)
}

// RunJob runs one job to completion: every pair is tried until one
// succeeds, the pairs run out, or ctx is cancelled. round is 0 outside
// batch mode.
func (r *Runner) RunJob(ctx context.Context, round int, job config.Job) (bool, error) {
	var users []string
	if job.Username == "" {
		users = r.resolve(job.UserList, wordlist.Users)
	}
	passwords := r.resolve(job.PassList, wordlist.Passwords)
	pairs := scanner.ExpandPairs(users, passwords, job.Username)

	tr, err := trial.New(job, trial.Options{Proxy: r.opts.Proxy, UserAgent: r.opts.UserAgent})
	if err != nil {
		return false, fmt.Errorf("building %s trial: %w", job.Protocol, err)
	}

	workers := scanner.WorkerCount(job.Threads, len(pairs))
	r.console.Infof("%d combos → %s %s (%d threads)",
		len(pairs), strings.ToUpper(string(job.Protocol)), job.Target, workers)

	var pauser *scanner.Pauser
	cleanup := func() {}
	if r.interactive {
		pauser, cleanup = startStdinToggle(r.console)
	}

	progress := output.NewProgress(r.console.Stderr(), len(pairs), r.opts.Quiet)
	cfg := scanner.WorkerConfig{
		Threads: job.Threads,
		Pauser:  pauser,
		OnAttempt: func(scanner.Credential, bool) {
			progress.Increment()
		},
	}
	if r.opts.Rate > 0 {
		cfg.Limiter = rate.NewLimiter(rate.Limit(r.opts.Rate), 1)
	}

	started := time.Now()
	progress.Start()
	res := scanner.RunDispatcher(ctx, tr, pairs, cfg)
	progress.Stop()
	cleanup()

	if err := ctx.Err(); err != nil && !res.Found {
		return false, err
	}

	if res.Found {
		r.console.Found(res.Credential.Username, res.Credential.Password)
	} else {
		r.console.NotFound()
	}
	r.console.Donef("Finished in %.1fs", res.Elapsed.Seconds())

	r.record(ctx, started, &output.Entry{
		Round:     round,
		Protocol:  string(job.Protocol),
		Target:    job.Target,
		Port:      job.Port,
		Found:     res.Found,
		Username:  res.Credential.Username,
		Password:  res.Credential.Password,
		Attempted: res.Attempted,
		Total:     res.Total,
		Duration:  res.Elapsed,
	})
	return res.Found, nil
}

// RunBatch parses the batch file and runs it through a Scheduler. Only an
// unusable batch file is returned as an error; per-job problems are printed
// and skipped.
func (r *Runner) RunBatch(ctx context.Context) error {
	records, err := batch.ParseFile(r.opts.BatchFile)
	if err != nil {
		return err
	}

	s := &batch.Scheduler{
		Records: records,
		Run:     r.RunJob,
		Loop:    r.opts.Loop,
		Delay:   time.Duration(r.opts.Delay) * time.Second,
		OnRoundStart: func(round int) {
			r.console.Headerf("=== Batch round #%d ===", round)
		},
		OnJobError: func(_ int, e batch.JobError) {
			r.console.Errorf("Skipping %v", e)
		},
		OnRound: func(rep batch.RoundReport) {
			if len(rep.Errors) > 0 {
				r.console.Warnf("Round %d: %d of %d jobs skipped", rep.Round, len(rep.Errors), rep.Jobs)
			}
			if r.opts.Loop {
				r.console.Infof("Sleeping %ds before next round…", r.opts.Delay)
			}
		},
	}

	// Start only returns ctx errors.
	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (r *Runner) resolve(path string, kind wordlist.Kind) []string {
	list, err := wordlist.Resolve(path, kind)
	if err != nil {
		r.console.Warnf("%v", err)
	}
	return list
}

// record fans a finished job out to the result file, the hook and the
// history store. Failures are warnings.
func (r *Runner) record(ctx context.Context, started time.Time, e *output.Entry) {
	r.stats.Add(e)

	if r.writer != nil {
		if err := r.writer.WriteResult(e); err != nil {
			r.console.Warnf("Writing result: %v", err)
		}
	}

	if r.hook != nil && e.Found {
		ev := hook.Event{
			Round:    e.Round,
			Protocol: e.Protocol,
			Target:   e.Target,
			Port:     e.Port,
			Username: e.Username,
			Password: e.Password,
		}
		if err := r.hook.Run(ctx, ev); err != nil {
			r.console.Warnf("%v", err)
		}
	}

	if r.store != nil {
		_, err := r.store.Insert(ctx, store.Row{
			Round:      e.Round,
			Protocol:   e.Protocol,
			Target:     e.Target,
			Port:       e.Port,
			Found:      e.Found,
			Username:   e.Username,
			Password:   e.Password,
			Attempted:  e.Attempted,
			Total:      e.Total,
			Duration:   e.Duration,
			StartedAt:  started,
			FinishedAt: started.Add(e.Duration),
		})
		if err != nil {
			r.console.Warnf("Saving history: %v", err)
		}
	}
}
