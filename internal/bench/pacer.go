package bench

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces request starts at a fixed rate using a leaky bucket: it
// tracks when the next start is due rather than how many starts are
// available, so a slow consumer never triggers a catch-up burst.
//
// A Pacer is safe for concurrent use.
type Pacer struct {
	mu          sync.Mutex
	rate        float64 // starts per second
	lastDrip    time.Time
	accumulated float64
	now         func() time.Time
}

// NewPacer returns a pacer for rate starts per second. A non-positive rate
// is treated as one per second. The first start is due immediately.
func NewPacer(rate float64) *Pacer {
	return newPacer(rate, time.Now)
}

func newPacer(rate float64, now func() time.Time) *Pacer {
	if rate <= 0 {
		rate = 1
	}
	return &Pacer{
		rate:        rate,
		lastDrip:    now(),
		accumulated: 1,
		now:         now,
	}
}

// Rate returns the configured starts per second.
func (p *Pacer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Next reserves the next start and returns when it is due. The result is in
// the past when the caller is behind schedule.
func (p *Pacer) Next() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if elapsed := now.Sub(p.lastDrip).Seconds(); elapsed > 0 {
		p.accumulated += elapsed * p.rate
	}
	// burst capacity is a single start
	if p.accumulated > 1 {
		p.accumulated = 1
	}

	if p.accumulated >= 1 {
		p.accumulated--
		p.lastDrip = now
		return now
	}

	base := now
	if p.lastDrip.After(now) {
		base = p.lastDrip
	}
	due := base.Add(time.Duration((1 - p.accumulated) / p.rate * float64(time.Second)))
	p.accumulated = 0
	// lastDrip moves to the due time so waking at due does not count twice
	p.lastDrip = due
	return due
}

// Wait blocks until the next start is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	wait := time.Until(p.Next())
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
