package timesource

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60fps frame boundary.
const DefaultFrameInterval = 16 * time.Millisecond

// Wall is the production TimeSource backed by real timers.
//
// Frame callbacks scheduled under distinct keys share a single timer per
// frame window and run in schedule order. All methods are safe for
// concurrent use. Callbacks run on timer goroutines; callers are expected
// to do their own locking, which the engine does.
type Wall struct {
	mu            sync.Mutex
	frameInterval time.Duration
	frames        map[string]func()
	frameOrder    []string
	frameTimer    *time.Timer
	timers        map[Handle]*time.Timer
	nextHandle    Handle
	stopped       bool
}

// NewWall creates a wall-clock time source with the default frame interval.
func NewWall() *Wall {
	return NewWallWithInterval(DefaultFrameInterval)
}

// NewWallWithInterval creates a wall-clock time source with a custom frame
// interval. Intervals below 1ms are clamped to 1ms.
func NewWallWithInterval(interval time.Duration) *Wall {
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	return &Wall{
		frameInterval: interval,
		frames:        make(map[string]func()),
		timers:        make(map[Handle]*time.Timer),
	}
}

// ScheduleFrame schedules fn for the next frame boundary under key.
func (w *Wall) ScheduleFrame(key string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}

	if _, exists := w.frames[key]; !exists {
		w.frameOrder = append(w.frameOrder, key)
	}
	w.frames[key] = fn

	if w.frameTimer == nil {
		w.frameTimer = time.AfterFunc(w.frameInterval, w.fireFrame)
	}
}

// CancelFrame drops any pending frame callback under key.
func (w *Wall) CancelFrame(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropFrameLocked(key)
}

func (w *Wall) dropFrameLocked(key string) {
	if _, exists := w.frames[key]; !exists {
		return
	}
	delete(w.frames, key)
	for i, k := range w.frameOrder {
		if k == key {
			w.frameOrder = append(w.frameOrder[:i], w.frameOrder[i+1:]...)
			break
		}
	}
}

// fireFrame drains all pending frame callbacks in schedule order.
func (w *Wall) fireFrame() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	order := w.frameOrder
	frames := w.frames
	w.frameOrder = nil
	w.frames = make(map[string]func())
	w.frameTimer = nil
	w.mu.Unlock()

	for _, key := range order {
		if fn := frames[key]; fn != nil {
			fn()
		}
	}
}

// After schedules fn to run once d has elapsed.
func (w *Wall) After(d time.Duration, fn func()) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return 0
	}

	w.nextHandle++
	h := w.nextHandle
	w.timers[h] = time.AfterFunc(d, func() {
		w.mu.Lock()
		if _, live := w.timers[h]; !live || w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.timers, h)
		w.mu.Unlock()
		fn()
	})
	return h
}

// Cancel drops the timer identified by h if it has not fired yet.
func (w *Wall) Cancel(h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[h]; ok {
		t.Stop()
		delete(w.timers, h)
	}
}

// Now returns the current wall-clock time.
func (w *Wall) Now() time.Time {
	return time.Now()
}

// Stop cancels every pending frame callback and timer. The source is
// unusable afterward; subsequent scheduling calls are no-ops.
func (w *Wall) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	if w.frameTimer != nil {
		w.frameTimer.Stop()
		w.frameTimer = nil
	}
	w.frames = make(map[string]func())
	w.frameOrder = nil
	for h, t := range w.timers {
		t.Stop()
		delete(w.timers, h)
	}
}
