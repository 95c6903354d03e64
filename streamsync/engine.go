package streamsync

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Simon-He95/stream-monaco/buffer"
	"github.com/Simon-He95/stream-monaco/timesource"
)

// engineSeq distinguishes frame keys across engine instances.
var engineSeq atomic.Uint64

// pendingUpdate is the single outstanding submission slot. Later Submit
// calls overwrite it before it is flushed; last write wins.
type pendingUpdate struct {
	content string
	tag     string
}

// Engine synchronizes one buffer sink with a stream of content snapshots.
//
// All methods are safe for concurrent use. After Close, every method is a
// silent no-op so late timer callbacks from the host can never mutate a
// disposed buffer.
type Engine struct {
	mu   sync.Mutex
	sink buffer.Sink
	ts   timesource.TimeSource

	// Configuration
	throttle    time.Duration
	maxChars    int
	maxRatio    float64
	onLineDelta LineDeltaFunc

	// Frame keys, unique per instance
	updateKey string
	appendKey string

	// Scheduler state
	pending       *pendingUpdate
	lastFlush     time.Time
	hasFlushed    bool
	deferredFlush timesource.Handle
	deferredArmed bool

	// Optimistic logical content: physical sink content plus any fragments
	// still sitting in the append queue.
	lastKnown string
	appendQ   []string

	closed bool
}

// New creates an engine that writes through sink, scheduling its work on ts.
func New(sink buffer.Sink, ts timesource.TimeSource, opts ...Option) (*Engine, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if ts == nil {
		return nil, ErrNilTimeSource
	}

	id := engineSeq.Add(1)
	e := &Engine{
		sink:      sink,
		ts:        ts,
		throttle:  DefaultThrottle,
		maxChars:  DefaultMinimalEditMaxChars,
		maxRatio:  DefaultMinimalEditMaxChangeRatio,
		updateKey: fmt.Sprintf("streamsync.update.%d", id),
		appendKey: fmt.Sprintf("streamsync.append.%d", id),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.throttle < 0 {
		return nil, ErrInvalidThrottle
	}
	if e.maxChars <= 0 {
		return nil, ErrInvalidMaxChars
	}
	if e.maxRatio <= 0 || e.maxRatio > 1 {
		return nil, ErrInvalidChangeRatio
	}

	// The engine's belief starts from whatever the sink already holds.
	e.lastKnown = sink.Value()

	return e, nil
}

// Submit stores content as the single pending update, overwriting any
// earlier unflushed submission, and schedules a frame-boundary flush if one
// is not already scheduled. An empty tag leaves the sink's tag unchanged.
func (e *Engine) Submit(content, tag string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.pending = &pendingUpdate{content: content, tag: tag}
	e.ts.ScheduleFrame(e.updateKey, e.frameFlush)
}

// frameFlush runs at the frame boundary and applies the throttle policy:
// flush now if the throttle window has elapsed, otherwise arm a single
// deferred flush for the remaining wait.
func (e *Engine) frameFlush() {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return
	}

	if e.throttle > 0 && e.hasFlushed {
		elapsed := e.ts.Now().Sub(e.lastFlush)
		if elapsed < e.throttle {
			// Only one deferred timer may exist; a second frame boundary
			// arriving while it is armed is a no-op.
			if !e.deferredArmed {
				e.deferredArmed = true
				e.deferredFlush = e.ts.After(e.throttle-elapsed, e.deferredFlushFired)
			}
			e.mu.Unlock()
			return
		}
	}

	notify := e.flushLocked()
	e.mu.Unlock()
	notify.emit()
}

// deferredFlushFired runs when the throttle deferral expires.
func (e *Engine) deferredFlushFired() {
	e.mu.Lock()

	e.deferredArmed = false
	if e.closed {
		e.mu.Unlock()
		return
	}

	notify := e.flushLocked()
	e.mu.Unlock()
	notify.emit()
}

// SetThrottle updates the minimum interval between flushes.
// Negative values are ignored.
func (e *Engine) SetThrottle(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || d < 0 {
		return
	}
	e.throttle = d
}

// Throttle returns the current minimum interval between flushes.
func (e *Engine) Throttle() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.throttle
}

// SetLineDeltaFunc replaces the line-count-delta handler.
func (e *Engine) SetLineDeltaFunc(fn LineDeltaFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.onLineDelta = fn
}

// Content returns the engine's logical content: the latest flushed state,
// including fragments not yet physically written to the sink.
func (e *Engine) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastKnown
}

// Close detaches the engine: every outstanding frame callback and timer is
// cancelled and pending state is cleared, so nothing scheduled before Close
// can mutate the sink afterward. Subsequent calls on the engine are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	e.ts.CancelFrame(e.updateKey)
	e.ts.CancelFrame(e.appendKey)
	if e.deferredArmed {
		e.ts.Cancel(e.deferredFlush)
		e.deferredArmed = false
	}
	e.pending = nil
	e.appendQ = nil
}

// lineDelta is a deferred line-count notification, emitted after the engine
// lock is released so handlers are free to call back into the engine.
type lineDelta struct {
	fn   LineDeltaFunc
	prev uint32
	cur  uint32
}

func (n lineDelta) emit() {
	if n.fn != nil && n.prev != n.cur {
		n.fn(n.prev, n.cur)
	}
}
