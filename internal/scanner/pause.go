package scanner

import (
	"context"
	"sync"
	"time"
)

// Pauser is a pause/resume gate shared by the dispatcher workers. While
// paused, Wait blocks until resumed or until the context is done.
type Pauser struct {
	mu          sync.Mutex
	resumed     chan struct{} // closed while running, open while paused
	pausedSince time.Time
	totalPaused time.Duration
}

// NewPauser creates a Pauser in the running state.
func NewPauser() *Pauser {
	ch := make(chan struct{})
	close(ch)
	return &Pauser{resumed: ch}
}

// Wait blocks while paused. It returns ctx.Err() if the context ends first.
func (p *Pauser) Wait(ctx context.Context) error {
	p.mu.Lock()
	ch := p.resumed
	p.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Toggle flips between paused and running and returns true if now paused.
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.resumed:
		p.resumed = make(chan struct{})
		p.pausedSince = time.Now()
		return true
	default:
		p.totalPaused += time.Since(p.pausedSince)
		close(p.resumed)
		return false
	}
}

// IsPaused returns whether workers are currently held.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.resumed:
		return false
	default:
		return true
	}
}

// PausedDuration returns the accumulated pause time, including any ongoing
// pause.
func (p *Pauser) PausedDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.totalPaused
	select {
	case <-p.resumed:
	default:
		d += time.Since(p.pausedSince)
	}
	return d
}
