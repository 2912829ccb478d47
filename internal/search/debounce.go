package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a typed query is applied.
const DefaultDelay = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer keeps the raw input and the applied query apart. Every Set restarts
// the quiet period; only the last value of a burst is applied.
type Debouncer struct {
	delay   time.Duration
	after   AfterFunc
	onApply func(string)

	mu      sync.Mutex
	pending string
	applied string
	timer   Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, onApply func(string), after AfterFunc) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer{delay: delay, after: after, onApply: onApply}
}

// Set records raw immediately and schedules it to be applied.
func (d *Debouncer) Set(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = raw
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.applied = d.pending
	d.timer = nil
	q := d.applied
	d.mu.Unlock()

	if d.onApply != nil {
		d.onApply(q)
	}
}

// Pending is the latest raw input.
func (d *Debouncer) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Applied is the query that last survived a quiet period.
func (d *Debouncer) Applied() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applied
}

// Stop cancels the pending apply. Later calls to Set are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
