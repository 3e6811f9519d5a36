package scanner

import "time"

// Result summarizes one dispatcher run.
type Result struct {
	Found      bool
	Credential Credential // winning pair, zero unless Found
	Attempted  int        // pairs tried; best effort when workers race
	Total      int
	Workers    int
	Elapsed    time.Duration
	Paused     time.Duration // time spent paused by the operator
}
