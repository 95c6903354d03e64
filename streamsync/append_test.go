package streamsync

import (
	"testing"
	"time"

	"github.com/Simon-He95/stream-monaco/timesource"
)

func TestExtensionWhileAppendPending(t *testing.T) {
	e, sink, ts := newTestEngine(t, WithThrottle(0))

	// The first fragment is queued but not yet written when the extended
	// snapshot arrives.
	e.Submit("hello", "")
	ts.StepFrame()
	e.Submit("hello world", "")
	ts.RunAll()

	if got := sink.Value(); got != "hello world" {
		t.Errorf("Value() = %q, want %q", got, "hello world")
	}
	if sv, _ := sink.counts(); sv != 0 {
		t.Errorf("got %d SetValue calls, want tail appends only", sv)
	}
}

// driveToQueuedFragment leaves the engine with content "hello" written,
// fragment " wor" sitting in the append queue, and the update frame
// scheduled ahead of the append frame. Reaching that ordering requires a
// throttle deferral: the deferral's flush enqueues the fragment after a
// later submission has already claimed the earlier frame slot.
func driveToQueuedFragment(t *testing.T, e *Engine, sink *recordingSink, ts *timesource.Manual) {
	t.Helper()

	e.Submit("hello", "")
	ts.StepFrame()
	ts.StepFrame()
	if got := sink.Value(); got != "hello" {
		t.Fatalf("Value() = %q, want %q", got, "hello")
	}

	e.Submit("hello w", "")
	ts.StepFrame() // arms the throttle deferral

	e.Submit("hello wor", "") // claims the next update frame slot

	// The deferral flushes "hello wor", queueing the " wor" fragment behind
	// the already-claimed update frame.
	ts.Advance(50 * time.Millisecond)

	if got := sink.Value(); got != "hello" {
		t.Fatalf("Value() = %q, want %q before the append frame", got, "hello")
	}
}

func TestFlushReadsThroughAppendQueue(t *testing.T) {
	e, sink, ts := newTestEngine(t, WithThrottle(50*time.Millisecond))
	driveToQueuedFragment(t, e, sink, ts)

	// The update flush runs ahead of the append flush. If it diffed against
	// the physical sink content instead of reading through the queue, the
	// queued " wor" would be written twice.
	e.Submit("hello world", "")
	e.SetThrottle(0)
	ts.RunAll()

	if got := sink.Value(); got != "hello world" {
		t.Errorf("Value() = %q, want %q", got, "hello world")
	}
	if got := e.Content(); got != "hello world" {
		t.Errorf("Content() = %q, want %q", got, "hello world")
	}
	if sv, _ := sink.counts(); sv != 0 {
		t.Errorf("got %d SetValue calls, want tail appends only", sv)
	}
}

func TestMiddleEditMaterializesQueuedFragments(t *testing.T) {
	e, sink, ts := newTestEngine(t, WithThrottle(50*time.Millisecond))
	driveToQueuedFragment(t, e, sink, ts)

	// Not a pure extension of "hello wor": the planner has to write the
	// queued fragment before a range edit can address positions in it.
	e.Submit("hello Xor", "")
	e.SetThrottle(0)
	ts.RunAll()

	if got := sink.Value(); got != "hello Xor" {
		t.Errorf("Value() = %q, want %q", got, "hello Xor")
	}
	if sv, _ := sink.counts(); sv != 0 {
		t.Errorf("got %d SetValue calls, want range edits only", sv)
	}
}

func TestTagChangeDiscardsQueuedFragments(t *testing.T) {
	e, sink, ts := newTestEngine(t, WithThrottle(50*time.Millisecond))
	driveToQueuedFragment(t, e, sink, ts)

	svBefore, _ := sink.counts()

	// The queued fragment is already part of the submitted snapshot; the
	// full replace must not apply it a second time afterward.
	e.Submit("hello wor", "go")
	e.SetThrottle(0)
	ts.RunAll()

	if got := sink.Value(); got != "hello wor" {
		t.Errorf("Value() = %q, want %q", got, "hello wor")
	}
	if got := sink.Tag(); got != "go" {
		t.Errorf("Tag() = %q, want %q", got, "go")
	}
	if sv, _ := sink.counts(); sv != svBefore+1 {
		t.Errorf("got %d SetValue calls, want %d", sv, svBefore+1)
	}
}

func TestConsecutiveExtensionsEachAppendOnce(t *testing.T) {
	e, sink, ts := newTestEngine(t, WithThrottle(0))

	snapshots := []string{"a", "ab", "abc", "abcd", "abcde"}
	for _, s := range snapshots {
		e.Submit(s, "")
		ts.StepFrame()
		ts.StepFrame()
	}

	if got := sink.Value(); got != "abcde" {
		t.Errorf("Value() = %q, want %q", got, "abcde")
	}
	if sv, ed := sink.counts(); sv != 0 || ed != len(snapshots) {
		t.Errorf("got %d SetValue and %d ApplyEdit calls, want 0 and %d",
			sv, ed, len(snapshots))
	}
}
