package event

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one call after a quiet period.
type Debouncer struct {
	mutex sync.Mutex
	timer *time.Timer
}

// Debounce schedules fn to run after duration, cancelling any pending call.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.scheduleLocked(duration, fn)
}

func (d *Debouncer) scheduleLocked(duration time.Duration, fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		if d.timer != timer {
			// Replaced or stopped after this timer had already fired.
			d.mutex.Unlock()
			return
		}
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
	d.timer = timer
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
