// Package buffer defines the buffer sink abstraction the synchronization
// engine writes through, along with a reference in-memory implementation.
//
// The engine never renders, tokenizes, or highlights text; it only needs a
// small mutation surface on the widget's document model. Sink captures that
// surface so the engine can be driven against a real editor widget, the
// in-memory TextBuffer, or a test double interchangeably.
package buffer
