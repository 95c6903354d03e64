package reveal

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Simon-He95/stream-monaco/timesource"
)

// Errors returned during controller construction.
var (
	// ErrNilScrollPort indicates no scroll port was supplied.
	ErrNilScrollPort = errors.New("nil scroll port")

	// ErrNilTimeSource indicates no time source was supplied.
	ErrNilTimeSource = errors.New("nil time source")

	// ErrInvalidDuration indicates a negative debounce or idle-batch window.
	ErrInvalidDuration = errors.New("reveal windows must not be negative")

	// ErrInvalidThreshold indicates a negative auto-scroll threshold.
	ErrInvalidThreshold = errors.New("auto-scroll thresholds must not be negative")
)

// scrollNoisePx is the scroll delta below which movement is treated as
// jitter rather than a deliberate user scroll.
const scrollNoisePx = 4

// suppressWindow is how long scroll observations are attributed to the
// controller's own programmatic reveal rather than to the user.
const suppressWindow = 250 * time.Millisecond

// controllerSeq distinguishes frame keys across controller instances.
var controllerSeq atomic.Uint64

// Controller follows the tail of a growing buffer.
//
// All methods are safe for concurrent use. After Close, every method is a
// silent no-op.
type Controller struct {
	mu   sync.Mutex
	port ScrollPort
	ts   timesource.TimeSource

	// Configuration
	strategy       Strategy
	debounce       time.Duration
	idleBatch      time.Duration
	thresholdPx    int
	thresholdLines int

	frameKey string

	// Follow state
	following     bool
	lastScrollTop int

	// Ticketing: every schedule bumps the counter; a reveal fires only if
	// its captured ticket still matches.
	ticket   uint64
	lastLine uint32

	timerArmed  bool
	timerHandle timesource.Handle

	// Programmatic-scroll suppression
	suppressed    bool
	suppressSeq   uint64
	suppressArmed bool
	suppressTimer timesource.Handle

	closed bool
}

// New creates a controller driving port, scheduling on ts.
func New(port ScrollPort, ts timesource.TimeSource, opts ...Option) (*Controller, error) {
	if port == nil {
		return nil, ErrNilScrollPort
	}
	if ts == nil {
		return nil, ErrNilTimeSource
	}

	c := &Controller{
		port:           port,
		ts:             ts,
		strategy:       StrategyCenterIfOutside,
		debounce:       DefaultDebounce,
		idleBatch:      DefaultIdleBatch,
		thresholdPx:    DefaultThresholdPx,
		thresholdLines: DefaultThresholdLines,
		frameKey:       fmt.Sprintf("reveal.fast.%d", controllerSeq.Add(1)),
		following:      true,
		lastScrollTop:  port.ScrollTop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.debounce < 0 || c.idleBatch < 0 {
		return nil, ErrInvalidDuration
	}
	if c.thresholdPx < 0 || c.thresholdLines < 0 {
		return nil, ErrInvalidThreshold
	}

	return c, nil
}

// Following reports whether the controller is auto-scrolling to the tail.
func (c *Controller) Following() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.following
}

// ObserveScroll classifies a scroll-position change. An upward move beyond
// the noise threshold pauses following, unless it falls inside the
// suppression window around the controller's own programmatic reveal.
// While paused, landing within the resume threshold of the bottom resumes
// following.
func (c *Controller) ObserveScroll(top int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	delta := top - c.lastScrollTop
	c.lastScrollTop = top

	if c.suppressed {
		return
	}

	if c.following {
		if delta < -scrollNoisePx {
			c.following = false
			c.ticket++ // invalidate any scheduled reveal
		}
		return
	}

	if c.distanceFromBottomLocked(top) <= c.resumeThresholdLocked() {
		c.following = true
	}
}

// distanceFromBottomLocked returns how far above the bottom edge the
// viewport currently sits (must hold lock).
func (c *Controller) distanceFromBottomLocked(top int) int {
	d := c.port.ContentHeight() - (top + c.port.ViewportHeight())
	if d < 0 {
		d = 0
	}
	return d
}

// resumeThresholdLocked returns the effective resume distance
// (must hold lock).
func (c *Controller) resumeThresholdLocked() int {
	return max(c.thresholdPx, c.thresholdLines*c.port.LineHeight())
}

// NotifyLineDelta schedules a reveal of the new last line while following.
//
// The fast path, taken when the viewport is already at the bottom with a
// visible scrollbar, reveals on the next frame, after the host has applied
// any pending container-height change. Otherwise the configured policy
// coalesces the request: idle batching defers until the burst quiets (revealing
// immediately when a scrollbar is already visible, so a long burst does not
// visibly lag), and debouncing executes only the last request after the
// quiet period.
func (c *Controller) NotifyLineDelta(prev, cur uint32) {
	c.mu.Lock()

	if c.closed || !c.following {
		c.mu.Unlock()
		return
	}

	c.lastLine = cur

	scrollable := c.port.ScrollbarVisible()
	atBottom := c.distanceFromBottomLocked(c.port.ScrollTop()) <= c.resumeThresholdLocked()

	if scrollable && atBottom {
		c.ticket++
		captured := c.ticket
		c.cancelTimerLocked()
		c.ts.ScheduleFrame(c.frameKey, func() { c.execute(captured) })
		c.mu.Unlock()
		return
	}

	if c.idleBatch > 0 {
		if scrollable {
			c.ticket++
			notify := c.revealLocked()
			c.mu.Unlock()
			notify()
			return
		}
		c.scheduleTimerLocked(c.idleBatch)
		c.mu.Unlock()
		return
	}

	c.scheduleTimerLocked(c.debounce)
	c.mu.Unlock()
}

// scheduleTimerLocked arms (or re-arms) the coalescing timer with a fresh
// ticket (must hold lock).
func (c *Controller) scheduleTimerLocked(d time.Duration) {
	c.ticket++
	captured := c.ticket
	c.cancelTimerLocked()
	c.timerArmed = true
	c.timerHandle = c.ts.After(d, func() { c.execute(captured) })
}

// cancelTimerLocked cancels the coalescing timer if armed (must hold lock).
func (c *Controller) cancelTimerLocked() {
	if c.timerArmed {
		c.ts.Cancel(c.timerHandle)
		c.timerArmed = false
	}
}

// execute runs a scheduled reveal if its ticket is still current.
func (c *Controller) execute(captured uint64) {
	c.mu.Lock()

	if c.closed || captured != c.ticket || !c.following {
		c.mu.Unlock()
		return
	}
	c.timerArmed = false

	notify := c.revealLocked()
	c.mu.Unlock()
	notify()
}

// revealLocked performs the programmatic reveal and arms the suppression
// window so the resulting scroll observation is not read as a user scroll.
// The port call is returned as a closure to run outside the lock.
func (c *Controller) revealLocked() func() {
	line := c.lastLine
	strategy := c.strategy

	c.suppressed = true
	c.suppressSeq++
	seq := c.suppressSeq
	if c.suppressArmed {
		c.ts.Cancel(c.suppressTimer)
	}
	c.suppressArmed = true
	c.suppressTimer = c.ts.After(suppressWindow, func() {
		c.mu.Lock()
		if c.suppressSeq == seq {
			c.suppressed = false
			c.suppressArmed = false
		}
		c.mu.Unlock()
	})

	return func() {
		c.port.RevealLine(line, strategy)

		c.mu.Lock()
		if !c.closed {
			c.lastScrollTop = c.port.ScrollTop()
		}
		c.mu.Unlock()
	}
}

// Close cancels outstanding timers and frame callbacks. Subsequent calls
// on the controller are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.ticket++
	c.cancelTimerLocked()
	if c.suppressArmed {
		c.ts.Cancel(c.suppressTimer)
		c.suppressArmed = false
	}
	c.ts.CancelFrame(c.frameKey)
}
