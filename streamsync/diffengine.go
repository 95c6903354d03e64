package streamsync

import (
	"time"

	"github.com/Simon-He95/stream-monaco/buffer"
	"github.com/Simon-He95/stream-monaco/timesource"
)

// DiffEngine synchronizes the two sides of a diff view. Each side is a full
// Engine with its own pending slot, append queue, and frame keys, so a burst
// on one side never delays or reorders flushes on the other.
type DiffEngine struct {
	original *Engine
	modified *Engine
}

// NewDiff creates a dual-buffer engine over the original and modified
// sinks. The options apply to both sides; callers that need per-side
// configuration can use the side accessors after construction.
func NewDiff(original, modified buffer.Sink, ts timesource.TimeSource, opts ...Option) (*DiffEngine, error) {
	orig, err := New(original, ts, opts...)
	if err != nil {
		return nil, err
	}

	mod, err := New(modified, ts, opts...)
	if err != nil {
		orig.Close()
		return nil, err
	}

	return &DiffEngine{original: orig, modified: mod}, nil
}

// SubmitOriginal submits content for the original (left) side.
func (d *DiffEngine) SubmitOriginal(content, tag string) {
	d.original.Submit(content, tag)
}

// SubmitModified submits content for the modified (right) side.
func (d *DiffEngine) SubmitModified(content, tag string) {
	d.modified.Submit(content, tag)
}

// Original returns the engine for the original side.
func (d *DiffEngine) Original() *Engine {
	return d.original
}

// Modified returns the engine for the modified side.
func (d *DiffEngine) Modified() *Engine {
	return d.modified
}

// SetThrottle updates the flush interval on both sides.
func (d *DiffEngine) SetThrottle(t time.Duration) {
	d.original.SetThrottle(t)
	d.modified.SetThrottle(t)
}

// Close detaches both sides.
func (d *DiffEngine) Close() {
	d.original.Close()
	d.modified.Close()
}
