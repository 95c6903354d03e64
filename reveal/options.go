package reveal

import "time"

// Default configuration values.
const (
	DefaultDebounce       = 75 * time.Millisecond
	DefaultIdleBatch      = 200 * time.Millisecond
	DefaultThresholdPx    = 32
	DefaultThresholdLines = 2
)

// Option configures a Controller during creation.
type Option func(*Controller)

// WithStrategy sets how revealed lines are positioned in the viewport.
func WithStrategy(s Strategy) Option {
	return func(c *Controller) {
		c.strategy = s
	}
}

// WithDebounce sets the quiet period used to coalesce reveal requests
// under the debounce policy.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithIdleBatch sets the idle window used to defer reveals during a burst,
// favoring one late scroll over many small ones. Zero disables idle
// batching; the debounce policy applies instead.
func WithIdleBatch(d time.Duration) Option {
	return func(c *Controller) {
		c.idleBatch = d
	}
}

// WithThresholdPx sets the pixel distance from the bottom within which
// following resumes.
func WithThresholdPx(px int) Option {
	return func(c *Controller) {
		c.thresholdPx = px
	}
}

// WithThresholdLines sets the line distance from the bottom within which
// following resumes. The effective resume threshold is the larger of the
// pixel threshold and this many line heights.
func WithThresholdLines(lines int) Option {
	return func(c *Controller) {
		c.thresholdLines = lines
	}
}
