package settings

import (
	"context"
	"sync"
	"time"

	"caseboard/application/ports"

	"go.uber.org/zap"
)

// DefaultFlushDelay is how long a field edit waits before being written.
// Rapid edits to one field (a dragged slider, a color picker) collapse into
// a single write carrying the latest value.
const DefaultFlushDelay = 500 * time.Millisecond

const writeTimeout = 10 * time.Second

type fieldRef struct {
	Category string
	Key      string
}

type pendingWrite struct {
	value interface{}
	timer *time.Timer
}

// Flusher coalesces rapid local setting edits into delayed remote writes.
// At most one write is pending per field identity: a new edit to the same
// field cancels and replaces the pending entry. Edits to different fields
// run independent timers.
type Flusher struct {
	store    ports.SettingsStore
	sketchID string
	delay    time.Duration
	logger   *zap.Logger
	metrics  ports.MetricsPublisher

	mu      sync.Mutex
	pending map[fieldRef]*pendingWrite
	closed  bool
}

// NewFlusher creates a flusher for one open sketch
func NewFlusher(store ports.SettingsStore, sketchID string, delay time.Duration, logger *zap.Logger, metrics ports.MetricsPublisher) *Flusher {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	return &Flusher{
		store:    store,
		sketchID: sketchID,
		delay:    delay,
		logger:   logger,
		metrics:  metrics,
		pending:  make(map[fieldRef]*pendingWrite),
	}
}

// Enqueue schedules a write for the field, replacing any pending one
func (f *Flusher) Enqueue(category, key string, value interface{}) {
	ref := fieldRef{Category: category, Key: key}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	if prev, ok := f.pending[ref]; ok {
		prev.timer.Stop()
	}

	p := &pendingWrite{value: value}
	p.timer = time.AfterFunc(f.delay, func() {
		f.fire(ref, p)
	})
	f.pending[ref] = p
}

// fire runs on timer expiry. Timers fire in expiry order, not edit order;
// the staleness check below makes the last edit win regardless, because each
// new edit replaces the map entry the old callback compares against.
func (f *Flusher) fire(ref fieldRef, p *pendingWrite) {
	f.mu.Lock()
	if f.closed || f.pending[ref] != p {
		f.mu.Unlock()
		return
	}
	delete(f.pending, ref)
	value := p.value
	f.mu.Unlock()

	f.write(ref, value)
}

// write issues one remote write. Failures are transient: local state is
// already applied optimistically and the write is not retried; the next edit
// re-triggers it.
func (f *Flusher) write(ref fieldRef, value interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := f.store.SaveValue(ctx, f.sketchID, ref.Category, ref.Key, value); err != nil {
		f.logger.Warn("settings write failed",
			zap.String("sketchID", f.sketchID),
			zap.String("category", ref.Category),
			zap.String("key", ref.Key),
			zap.Error(err),
		)
		return
	}

	if f.metrics != nil {
		f.metrics.IncrementCounter(ctx, "SettingsWritesFlushed", 1)
	}
}

// Flush writes all pending values immediately and stops their timers
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	drained := make(map[fieldRef]interface{}, len(f.pending))
	for ref, p := range f.pending {
		p.timer.Stop()
		drained[ref] = p.value
	}
	f.pending = make(map[fieldRef]*pendingWrite)
	f.mu.Unlock()

	var firstErr error
	for ref, value := range drained {
		if err := f.store.SaveValue(ctx, f.sketchID, ref.Category, ref.Key, value); err != nil {
			f.logger.Warn("settings flush write failed",
				zap.String("category", ref.Category),
				zap.String("key", ref.Key),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close flushes pending writes and rejects further enqueues. Writes already
// issued by expired timers are never cancelled.
func (f *Flusher) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	return f.Flush(ctx)
}

// PendingCount returns the number of fields with a scheduled write
func (f *Flusher) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
