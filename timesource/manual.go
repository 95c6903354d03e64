package timesource

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic TimeSource for tests.
//
// Nothing fires on its own: frame callbacks run when StepFrame is called,
// timers fire when Advance moves the clock past their deadline. Callbacks
// run on the calling goroutine, so a test can interleave frame boundaries,
// timer expiry, and direct engine calls in any order it wants to probe.
type Manual struct {
	mu         sync.Mutex
	now        time.Time
	frames     map[string]func()
	frameOrder []string
	timers     map[Handle]manualTimer
	nextHandle Handle
}

type manualTimer struct {
	deadline time.Time
	fn       func()
}

// NewManual creates a manual time source starting at an arbitrary fixed time.
func NewManual() *Manual {
	return &Manual{
		now:    time.Unix(0, 0),
		frames: make(map[string]func()),
		timers: make(map[Handle]manualTimer),
	}
}

// ScheduleFrame schedules fn for the next StepFrame under key.
func (m *Manual) ScheduleFrame(key string, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.frames[key]; !exists {
		m.frameOrder = append(m.frameOrder, key)
	}
	m.frames[key] = fn
}

// CancelFrame drops any pending frame callback under key.
func (m *Manual) CancelFrame(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.frames[key]; !exists {
		return
	}
	delete(m.frames, key)
	for i, k := range m.frameOrder {
		if k == key {
			m.frameOrder = append(m.frameOrder[:i], m.frameOrder[i+1:]...)
			break
		}
	}
}

// After schedules fn to fire when the clock is advanced past d.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextHandle++
	h := m.nextHandle
	m.timers[h] = manualTimer{deadline: m.now.Add(d), fn: fn}
	return h
}

// Cancel drops the timer identified by h if it has not fired yet.
func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, h)
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// StepFrame runs all pending frame callbacks in schedule order, emulating
// one frame boundary. Callbacks scheduled during the step wait for the
// next StepFrame.
func (m *Manual) StepFrame() {
	m.mu.Lock()
	order := m.frameOrder
	frames := m.frames
	m.frameOrder = nil
	m.frames = make(map[string]func())
	m.mu.Unlock()

	for _, key := range order {
		if fn := frames[key]; fn != nil {
			fn()
		}
	}
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Frame callbacks are not drained; tests interleave StepFrame and
// Advance explicitly to probe any ordering of frame boundaries against
// timer expiry.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		h, timer, ok := m.earliestLocked(target)
		if !ok {
			m.now = target
			m.mu.Unlock()
			return
		}
		delete(m.timers, h)
		if timer.deadline.After(m.now) {
			m.now = timer.deadline
		}
		m.mu.Unlock()

		timer.fn()
	}
}

// earliestLocked finds the earliest timer due at or before target
// (must hold lock).
func (m *Manual) earliestLocked(target time.Time) (Handle, manualTimer, bool) {
	type entry struct {
		h Handle
		t manualTimer
	}
	var due []entry
	for h, t := range m.timers {
		if !t.deadline.After(target) {
			due = append(due, entry{h, t})
		}
	}
	if len(due) == 0 {
		return 0, manualTimer{}, false
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].t.deadline.Equal(due[j].t.deadline) {
			return due[i].h < due[j].h
		}
		return due[i].t.deadline.Before(due[j].t.deadline)
	})
	return due[0].h, due[0].t, true
}

// RunAll drains frame callbacks and timers until nothing remains pending,
// advancing the clock as far as the latest timer deadline requires.
func (m *Manual) RunAll() {
	for {
		m.StepFrame()

		m.mu.Lock()
		if len(m.frames) > 0 {
			m.mu.Unlock()
			continue
		}
		var earliest time.Time
		found := false
		for _, t := range m.timers {
			if !found || t.deadline.Before(earliest) {
				earliest = t.deadline
				found = true
			}
		}
		if !found {
			m.mu.Unlock()
			return
		}
		d := earliest.Sub(m.now)
		m.mu.Unlock()

		if d < 0 {
			d = 0
		}
		m.Advance(d)
	}
}

// PendingFrames returns the number of pending frame callbacks.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// PendingTimers returns the number of pending timers.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
