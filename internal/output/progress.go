package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Progress tracks and displays attempt progress on one terminal line.
type Progress struct {
	w         io.Writer
	total     int
	completed atomic.Int64
	start     time.Time
	done      chan struct{}
	stopped   chan struct{}
	quiet     bool
}

// NewProgress creates a progress tracker. Call Start() to begin display updates.
func NewProgress(w io.Writer, total int, quiet bool) *Progress {
	return &Progress{
		w:       w,
		total:   total,
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		quiet:   quiet,
	}
}

// Start begins periodically redrawing the progress line.
func (p *Progress) Start() {
	if p.quiet {
		close(p.stopped)
		return
	}
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.print()
			case <-p.done:
				// Leave the line empty for whatever the caller prints next.
				fmt.Fprint(p.w, "\r\033[K")
				return
			}
		}
	}()
}

// Increment records a finished attempt.
func (p *Progress) Increment() {
	p.completed.Add(1)
}

// Completed returns the number of recorded attempts.
func (p *Progress) Completed() int64 {
	return p.completed.Load()
}

// Stop ends the display and waits for the line to be cleared.
func (p *Progress) Stop() {
	close(p.done)
	<-p.stopped
}

func (p *Progress) print() {
	completed := p.completed.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(completed) / elapsed
	}

	pct := float64(0)
	if p.total > 0 {
		pct = float64(completed) / float64(p.total) * 100
	}

	eta := ""
	if rate > 0 && completed < int64(p.total) {
		remaining := float64(int64(p.total)-completed) / rate
		eta = fmt.Sprintf("ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}

	fmt.Fprintf(p.w, "\r\033[K[%3.0f%%] %d/%d | %.1f att/s | %s",
		pct, completed, p.total, rate, eta)
}
