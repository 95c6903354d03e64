package buffer

import "errors"

// Errors returned by sink implementations.
var (
	// ErrLineOutOfRange indicates a line number outside the buffer.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end before start).
	ErrRangeInvalid = errors.New("invalid range")
)

// Sink is the mutation surface of the text document being kept in sync.
//
// The synchronization engine is the sole writer of a Sink; no other code may
// call its mutation methods while an engine is attached. This is a design
// precondition, not something the engine enforces.
type Sink interface {
	// Value returns the full document content.
	Value() string

	// SetValue replaces the entire document content.
	SetValue(content string)

	// LineCount returns the number of lines. An empty document has one line.
	LineCount() uint32

	// LineEndColumn returns the column just past the last character of the
	// given 1-based line. Columns are 1-based byte positions within the line,
	// so an empty line has end column 1.
	LineEndColumn(line uint32) uint32

	// ApplyEdit replaces the text covered by r with text.
	ApplyEdit(r Range, text string) error

	// Tag returns the content tag (typically a language identifier) the
	// document is currently keyed by.
	Tag() string

	// SetTag updates the content tag.
	SetTag(tag string)

	// OnContentChanged registers fn to run after every content mutation.
	// The returned function removes the listener.
	OnContentChanged(fn func()) (remove func())
}
