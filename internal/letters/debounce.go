package letters

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is how long search input must be quiet before a
// filter pass runs.
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid calls into a single trailing invocation. Search
// keystrokes go through it; select-driven filter changes do not, they apply
// immediately.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn after the delay, replacing any pending invocation. At most
// one fn runs per quiet window.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
