package stepeditor

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the delay between a field edit and the validation
// pass it schedules.
const DefaultDebounceWindow = 400 * time.Millisecond

// Debouncer coalesces rapid-fire requests into one delayed execution. A new
// request supersedes the pending one rather than queueing behind it, so the
// function always runs against the final input state. Safe for concurrent
// use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a debouncer with the given delay. Zero or negative
// selects the default window.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceWindow
	}
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn to run after the delay, cancelling any previously
// scheduled function first.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs the pending function immediately, if any. Used when the result
// must be current right now, e.g. before a submission gate.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels the pending function without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
