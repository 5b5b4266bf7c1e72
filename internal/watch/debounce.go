package watch

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of events per key. The callback for a key
// runs once, after interval has passed without a new Trigger for it.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval, timers: make(map[string]*time.Timer)}
}

// Trigger schedules fn for key, replacing any callback still pending for
// the same key.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.stopped || d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.running.Add(1)
		d.mu.Unlock()
		defer d.running.Done()
		fn()
	})
	d.timers[key] = t
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback and waits for callbacks already
// running to return. Later Triggers are ignored. Stop must not be called
// from a callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.running.Wait()
}
