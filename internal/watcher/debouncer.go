package watcher

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of events into one flush. Events for the same
// path replace each other; a flush happens once the window passes without a
// new event or the batch reaches maxBatch.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	onFlush  func([]FileEvent)

	mu      sync.Mutex
	events  map[string]FileEvent
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, maxBatch int, onFlush func([]FileEvent)) *Debouncer {
	if maxBatch <= 0 {
		maxBatch = 1
	}
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		events:   make(map[string]FileEvent),
		onFlush:  onFlush,
	}
}

func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.events[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(d.events) >= d.maxBatch {
		batch := d.drainLocked()
		d.mu.Unlock()
		d.flush(batch)
		return
	}

	d.timer = time.AfterFunc(d.window, d.fire)
	d.mu.Unlock()
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	batch := d.drainLocked()
	d.mu.Unlock()
	d.flush(batch)
}

func (d *Debouncer) drainLocked() []FileEvent {
	batch := make([]FileEvent, 0, len(d.events))
	for _, event := range d.events {
		batch = append(batch, event)
	}
	d.events = make(map[string]FileEvent)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return batch
}

func (d *Debouncer) flush(batch []FileEvent) {
	if len(batch) > 0 && d.onFlush != nil {
		d.onFlush(batch)
	}
}

// Stop flushes pending events and drops everything added afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	batch := d.drainLocked()
	d.mu.Unlock()
	d.flush(batch)
}
