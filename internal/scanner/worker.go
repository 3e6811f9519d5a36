package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Attempter tries a single credential pair against a target. Every failure
// mode is reported as false.
type Attempter interface {
	Attempt(ctx context.Context, cred Credential) bool
}

// WorkerConfig holds options for one dispatcher run.
type WorkerConfig struct {
	Threads   int
	Pauser    *Pauser                         // nil = no pause support
	Limiter   *rate.Limiter                   // nil = unlimited
	OnAttempt func(cred Credential, ok bool) // called after every finished attempt
}

// supply hands out pairs and records the first success. Both live behind
// one mutex so that checking for a success and claiming the next pair
// happen as a single step.
type supply struct {
	mu     sync.Mutex
	pairs  []Credential
	next   int
	found  bool
	winner Credential
}

// claim returns the next untried pair, or false once a success has been
// recorded, the context is done, or the pairs are exhausted.
func (s *supply) claim(ctx context.Context) (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.found || ctx.Err() != nil || s.next >= len(s.pairs) {
		return Credential{}, false
	}
	c := s.pairs[s.next]
	s.next++
	return c, true
}

// record stores cred as the winner. Only the first call has an effect.
func (s *supply) record(cred Credential) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.found {
		return false
	}
	s.found = true
	s.winner = cred
	return true
}

func (s *supply) result() (bool, Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found, s.winner
}

// WorkerCount returns the number of workers for total pairs: the configured
// thread count capped at total, and never below one.
func WorkerCount(threads, total int) int {
	if total < 1 {
		total = 1
	}
	n := threads
	if total < n {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RunDispatcher drains pairs across a fixed pool of workers until the pairs
// are exhausted, a worker reports success, or ctx is cancelled. Attempts
// already in flight when a success is recorded are allowed to finish; no new
// ones start. It blocks until every worker has returned.
func RunDispatcher(ctx context.Context, a Attempter, pairs []Credential, cfg WorkerConfig) Result {
	s := &supply{pairs: pairs}
	workers := WorkerCount(cfg.Threads, len(pairs))

	// gate ends pause and rate waits once a success is recorded. Attempts
	// keep ctx so those in flight finish.
	gate, stop := context.WithCancel(ctx)
	defer stop()

	var attempted atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if cfg.Pauser != nil {
					if err := cfg.Pauser.Wait(gate); err != nil {
						return
					}
				}
				if cfg.Limiter != nil {
					if err := cfg.Limiter.Wait(gate); err != nil {
						return
					}
				}

				cred, ok := s.claim(ctx)
				if !ok {
					return
				}
				attempted.Add(1)

				success := a.Attempt(ctx, cred)
				if cfg.OnAttempt != nil {
					cfg.OnAttempt(cred, success)
				}
				if success {
					s.record(cred)
					stop()
					return
				}
			}
		}()
	}

	wg.Wait()

	found, winner := s.result()
	res := Result{
		Found:      found,
		Credential: winner,
		Attempted:  int(attempted.Load()),
		Total:      len(pairs),
		Workers:    workers,
		Elapsed:    time.Since(start),
	}
	if cfg.Pauser != nil {
		res.Paused = cfg.Pauser.PausedDuration()
	}
	return res
}
