package streamsync

import "time"

// Default configuration values.
const (
	DefaultThrottle                  = 50 * time.Millisecond
	DefaultMinimalEditMaxChars       = 200000
	DefaultMinimalEditMaxChangeRatio = 0.5
)

// LineDeltaFunc receives the buffer's line count before and after a
// mutation that changed it.
type LineDeltaFunc func(prev, cur uint32)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithThrottle sets the minimum interval between flushes.
// Zero disables throttling; every frame boundary flushes.
func WithThrottle(d time.Duration) Option {
	return func(e *Engine) {
		e.throttle = d
	}
}

// WithMinimalEditMaxChars sets the combined old+new size above which the
// engine falls back to a full replace instead of computing a minimal edit.
func WithMinimalEditMaxChars(n int) Option {
	return func(e *Engine) {
		e.maxChars = n
	}
}

// WithMinimalEditMaxChangeRatio sets the change ratio above which the
// engine falls back to a full replace. The ratio is the absolute length
// difference divided by the longer of the two contents.
func WithMinimalEditMaxChangeRatio(r float64) Option {
	return func(e *Engine) {
		e.maxRatio = r
	}
}

// WithLineDeltaFunc sets the handler notified when a flush changes the
// buffer's line count.
func WithLineDeltaFunc(fn LineDeltaFunc) Option {
	return func(e *Engine) {
		e.onLineDelta = fn
	}
}
