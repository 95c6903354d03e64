package timesource

import "time"

// Handle identifies a scheduled one-shot timer.
type Handle uint64

// TimeSource provides frame-boundary callbacks and one-shot timers.
//
// Implementations must tolerate CancelFrame/Cancel for keys and handles that
// are unknown or already fired; those calls are no-ops.
type TimeSource interface {
	// ScheduleFrame schedules fn to run at the next frame boundary.
	// If a callback is already pending under key, fn replaces it and no
	// additional frame is scheduled.
	ScheduleFrame(key string, fn func())

	// CancelFrame drops any pending frame callback under key.
	CancelFrame(key string)

	// After schedules fn to run once d has elapsed.
	After(d time.Duration, fn func()) Handle

	// Cancel drops the timer identified by h if it has not fired yet.
	Cancel(h Handle)

	// Now returns the source's current time.
	Now() time.Time
}
