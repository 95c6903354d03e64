// Package reveal keeps a viewport following the growing tail of a synced
// buffer without fighting a user who has scrolled away.
//
// The controller is a two-state machine. While Following, line-count
// changes schedule a reveal of the new last line, coalesced by either a
// debounce quiet period or an idle batch window. An upward user scroll
// pauses following; scrolling back near the bottom resumes it. Scheduled
// reveals carry a monotonically increasing ticket and are skipped when a
// newer schedule has superseded them, which cancels logically obsolete
// reveals whose timers have already escaped.
package reveal
