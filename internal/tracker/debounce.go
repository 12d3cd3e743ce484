package tracker

import (
	"sync"
	"time"
)

// Debouncer signals once after the last Schedule call has been quiet for
// the delay. Each Schedule cancels the pending signal. The signal is only a
// channel send; the receiving loop does the work.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	c     chan struct{}
}

// NewDebouncer returns a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, c: make(chan struct{}, 1)}
}

// C delivers a value when a scheduled quiet period elapses.
func (d *Debouncer) C() <-chan struct{} {
	return d.c
}

// Schedule restarts the quiet period.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.gen == gen
		d.mu.Unlock()
		if !current {
			return
		}
		select {
		case d.c <- struct{}{}:
		default:
		}
	})
}

// Stop cancels any pending signal.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
