package watcher

import (
	"sync"
	"time"
)

// Op classifies what happened to a path.
type Op int

const (
	OpChange Op = iota // created or written
	OpRemove           // removed or renamed away
)

// Event is one collapsed change notification. Path is root-relative with
// forward slashes.
type Event struct {
	Path string
	Op   Op
}

// Debouncer collapses bursts of change notifications into one batch per
// quiet interval. Editors routinely emit several events per save; the
// engine only needs one invalidation per path.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	pending  map[string]Op
	timer    *time.Timer
	output   chan []Event
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Op),
		output:   make(chan []Event, 16),
	}
}

// Output returns the batch channel.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event and restarts the quiet timer. A removal followed by
// a change within one window collapses to a change; anything followed by a
// removal collapses to a removal.
func (d *Debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = op

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return
	}
	batch := make([]Event, 0, len(d.pending))
	for path, op := range d.pending {
		batch = append(batch, Event{Path: path, Op: op})
	}
	d.pending = make(map[string]Op)

	select {
	case d.output <- batch:
	default:
		// A stalled consumer drops the batch; the fingerprint check still
		// catches the change on the next query.
	}
}
