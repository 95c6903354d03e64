package streamsync

import (
	"strings"

	"github.com/Simon-He95/stream-monaco/buffer"
)

// flushLocked reads and clears the pending update, then applies the
// cheapest strategy that converges the sink on the new content: nothing,
// a tail append, a single middle-range replace, or a full replace.
// Must hold the engine lock; the returned notification is emitted by the
// caller after unlocking.
func (e *Engine) flushLocked() lineDelta {
	p := e.pending
	e.pending = nil
	if p == nil {
		return lineDelta{}
	}

	e.lastFlush = e.ts.Now()
	e.hasFlushed = true

	newCode := p.content

	// The authoritative previous state includes fragments still queued for
	// the tail. Consulting the cache while fragments are queued would queue
	// the same suffix twice, so reconcile against the sink first.
	prevCode := e.lastKnown
	if len(e.appendQ) > 0 {
		prevCode = e.sink.Value() + strings.Join(e.appendQ, "")
		e.lastKnown = prevCode
	}

	tagChanged := p.tag != "" && p.tag != e.sink.Tag()

	if prevCode == newCode && !tagChanged {
		return lineDelta{}
	}

	before := e.sink.LineCount()

	// Tag changes force a full replace: downstream tokenization is keyed by
	// the tag, and a partial edit would desynchronize it. Queued fragments
	// are already folded into newCode, so they are discarded, not re-applied.
	if tagChanged {
		e.discardQueuedLocked()
		e.sink.SetValue(newCode)
		e.sink.SetTag(p.tag)
		e.lastKnown = newCode
		return lineDelta{fn: e.onLineDelta, prev: before, cur: e.sink.LineCount()}
	}

	// Pure tail growth is handed to the append queue; the buffer write
	// happens on the append flush, not here.
	if len(newCode) > len(prevCode) && strings.HasPrefix(newCode, prevCode) {
		e.enqueueAppendLocked(newCode[len(prevCode):])
		return lineDelta{}
	}

	if exceedsMinimalEditLimits(prevCode, newCode, e.maxChars, e.maxRatio) {
		e.discardQueuedLocked()
		e.sink.SetValue(newCode)
		e.lastKnown = newCode
		return lineDelta{fn: e.onLineDelta, prev: before, cur: e.sink.LineCount()}
	}

	// A middle-range edit addresses positions in prevCode, so the physical
	// buffer has to be caught up with any queued fragments first.
	e.applyQueuedLocked()

	prefix, suffix := commonAffixes(prevCode, newCode)
	r := spanRange(prevCode, prefix, len(prevCode)-suffix)
	if err := e.sink.ApplyEdit(r, newCode[prefix:len(newCode)-suffix]); err != nil {
		// A stale range after an unexpected external mutation must not crash
		// a streaming consumer; retry once as a full replace.
		e.sink.SetValue(newCode)
	}
	e.lastKnown = newCode

	return lineDelta{fn: e.onLineDelta, prev: before, cur: e.sink.LineCount()}
}

// exceedsMinimalEditLimits reports whether computing a minimal edit would
// cost more than rewriting the buffer outright.
func exceedsMinimalEditLimits(prevCode, newCode string, maxChars int, maxRatio float64) bool {
	if len(prevCode)+len(newCode) > maxChars {
		return true
	}

	maxLen := max(len(prevCode), len(newCode))
	if maxLen == 0 {
		return false
	}

	diff := len(newCode) - len(prevCode)
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(maxLen) > maxRatio
}

// commonAffixes returns the longest common prefix length and the longest
// common suffix length, with the suffix bounded so the two never overlap.
// This is deliberately not a general diff: streamed text changes
// overwhelmingly near the tail, and one O(n) scan beats a minimal-diff
// computation on the hot path even when the resulting replace range is
// wider than optimal for rearranged content.
func commonAffixes(oldStr, newStr string) (prefix, suffix int) {
	limit := min(len(oldStr), len(newStr))

	for prefix < limit && oldStr[prefix] == newStr[prefix] {
		prefix++
	}

	maxSuffix := limit - prefix
	for suffix < maxSuffix && oldStr[len(oldStr)-1-suffix] == newStr[len(newStr)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}

// positionAt converts a byte offset in s to a 1-based line/column position.
func positionAt(s string, off int) buffer.Position {
	line := uint32(strings.Count(s[:off], "\n")) + 1
	lastNL := strings.LastIndexByte(s[:off], '\n')
	return buffer.Position{Line: line, Column: uint32(off - lastNL)}
}

// spanRange converts a byte span of s into a buffer range.
func spanRange(s string, start, end int) buffer.Range {
	return buffer.NewRange(positionAt(s, start), positionAt(s, end))
}
