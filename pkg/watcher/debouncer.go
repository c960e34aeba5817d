package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer turns a stream of changed paths into batches. A batch is
// released once no path has arrived for the quiet period, or as soon as it
// holds limit distinct paths. Batches are delivered one at a time, sorted.
type Debouncer struct {
	quiet   time.Duration
	limit   int
	deliver func([]string)

	mu      sync.Mutex
	pending map[string]struct{}
	last    time.Time   // arrival of the newest pending path
	timer   *time.Timer // single timer, re-armed while paths keep arriving
	armed   bool
	closed  bool

	deliverMu sync.Mutex
}

// NewDebouncer creates a Debouncer. A limit of zero or less disables the
// size trigger.
func NewDebouncer(quiet time.Duration, limit int, deliver func([]string)) *Debouncer {
	return &Debouncer{
		quiet:   quiet,
		limit:   limit,
		deliver: deliver,
		pending: make(map[string]struct{}),
	}
}

// Add records a changed path. It is a no-op after Stop.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	d.pending[path] = struct{}{}
	d.last = time.Now()

	if d.limit > 0 && len(d.pending) >= d.limit {
		batch := d.takeLocked()
		d.mu.Unlock()
		d.send(batch)
		return
	}

	if !d.armed {
		d.armed = true
		if d.timer == nil {
			d.timer = time.AfterFunc(d.quiet, d.expire)
		} else {
			d.timer.Reset(d.quiet)
		}
	}
	d.mu.Unlock()
}

// expire runs on the timer. Paths that arrived since arming push the
// deadline out instead of releasing the batch.
func (d *Debouncer) expire() {
	d.mu.Lock()
	if d.closed || len(d.pending) == 0 {
		d.armed = false
		d.mu.Unlock()
		return
	}
	if wait := d.quiet - time.Since(d.last); wait > 0 {
		d.timer.Reset(wait)
		d.mu.Unlock()
		return
	}

	batch := d.takeLocked()
	d.mu.Unlock()
	d.send(batch)
}

// takeLocked empties the pending set. mu must be held.
func (d *Debouncer) takeLocked() []string {
	batch := make([]string, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	slices.Sort(batch)
	clear(d.pending)
	d.armed = false
	return batch
}

func (d *Debouncer) send(batch []string) {
	if len(batch) == 0 || d.deliver == nil {
		return
	}
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	d.deliver(batch)
}

// Stop delivers whatever is pending and drops later paths. Safe to call
// more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	batch := d.takeLocked()
	d.mu.Unlock()
	d.send(batch)
}
