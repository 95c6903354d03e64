package streamsync

import (
	"strings"

	"github.com/Simon-He95/stream-monaco/buffer"
)

// enqueueAppendLocked queues a tail fragment and schedules an append flush
// for the next frame boundary. The append frame key is distinct from the
// update key, so a pending full-update flush and a pending append flush can
// coexist. Must hold the engine lock.
func (e *Engine) enqueueAppendLocked(fragment string) {
	e.appendQ = append(e.appendQ, fragment)
	e.lastKnown += fragment
	e.ts.ScheduleFrame(e.appendKey, e.frameAppend)
}

// frameAppend claims the whole append queue and writes it to the sink as a
// single tail insert.
func (e *Engine) frameAppend() {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return
	}

	// Claim atomically: a fragment enqueued after this point belongs to the
	// next flush, never to this one.
	q := e.appendQ
	e.appendQ = nil
	if len(q) == 0 {
		e.mu.Unlock()
		return
	}

	before := e.sink.LineCount()
	e.applyTailLocked(strings.Join(q, ""))
	after := e.sink.LineCount()

	fn := e.onLineDelta
	e.mu.Unlock()

	lineDelta{fn: fn, prev: before, cur: after}.emit()
}

// applyQueuedLocked writes any queued fragments to the sink immediately,
// leaving the physical buffer equal to the engine's logical content.
// Must hold the engine lock.
func (e *Engine) applyQueuedLocked() {
	if len(e.appendQ) == 0 {
		return
	}

	text := strings.Join(e.appendQ, "")
	e.appendQ = nil
	e.ts.CancelFrame(e.appendKey)
	e.applyTailLocked(text)
}

// discardQueuedLocked drops queued fragments without writing them; the
// caller has folded them into a full replace. Must hold the engine lock.
func (e *Engine) discardQueuedLocked() {
	if len(e.appendQ) == 0 {
		return
	}
	e.appendQ = nil
	e.ts.CancelFrame(e.appendKey)
}

// applyTailLocked inserts text at the very end of the sink. A failed insert
// falls back to rewriting the sink with the engine's logical content; the
// error is never surfaced. Must hold the engine lock.
func (e *Engine) applyTailLocked(text string) {
	line := e.sink.LineCount()
	col := e.sink.LineEndColumn(line)
	at := buffer.At(buffer.Position{Line: line, Column: col})

	if err := e.sink.ApplyEdit(at, text); err != nil {
		e.sink.SetValue(e.lastKnown)
	}
}
