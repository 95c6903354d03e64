// Package streamsync keeps a buffer sink converged with a rapidly changing
// source string, such as tokens streamed from a model many times per second.
//
// Callers hand the engine whole snapshots of the source via Submit; the
// engine coalesces bursts into at most one buffer mutation per frame window
// and picks the cheapest correct strategy for each flush: a tail append for
// pure growth, a single middle-range replace for small localized changes,
// or a full replace otherwise. A line-count-delta hook lets a reveal
// controller follow the growing tail without the engine knowing anything
// about viewports.
//
// The engine is the sole writer of its sink. Convergence holds under any
// interleaving of frame callbacks and throttle timers: the final buffer
// content always equals the most recently submitted content, with no
// duplicated or dropped fragments.
package streamsync
