// Package debounce provides an explicit scheduling primitive owned by its
// caller: a Debouncer runs a function after a quiet period, and every new
// call cancels any pending previous call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays function execution until the configured interval has
// passed without another Do call. The zero value is not usable; use New.
type Debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Do schedules fn to run after the debounce interval. A pending call from a
// previous Do is cancelled; only the most recent fn runs. fn executes on the
// timer goroutine.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending call. It reports whether a call was pending.
// After Stop the debouncer remains usable.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}

	stopped := d.timer.Stop()
	d.timer = nil

	return stopped
}
