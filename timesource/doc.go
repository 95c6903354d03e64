// Package timesource abstracts frame callbacks and one-shot timers behind a
// capability interface, so scheduling logic can be driven by real time in
// production (Wall) or stepped deterministically in tests (Manual).
//
// Frame scheduling is keyed: scheduling a frame under a key that already has
// a pending callback replaces the callback without scheduling a second frame.
// That dedup is what lets callers coalesce bursts of work into one callback
// per frame.
package timesource
