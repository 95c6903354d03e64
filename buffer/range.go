package buffer

import "fmt"

// Position is a 1-based line/column location in a document.
// Columns count bytes within the line, plus one.
type Position struct {
	Line   uint32
	Column uint32
}

// Before reports whether p is strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open span between two positions.
type Range struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

// NewRange creates a range from two positions.
func NewRange(start, end Position) Range {
	return Range{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

// At creates an empty range at a single position.
func At(p Position) Range {
	return NewRange(p, p)
}

// Start returns the range's start position.
func (r Range) Start() Position {
	return Position{Line: r.StartLine, Column: r.StartColumn}
}

// End returns the range's end position.
func (r Range) End() Position {
	return Position{Line: r.EndLine, Column: r.EndColumn}
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.StartLine == r.EndLine && r.StartColumn == r.EndColumn
}

// IsValid reports whether the range is well-formed (start not after end,
// lines and columns at least 1).
func (r Range) IsValid() bool {
	if r.StartLine < 1 || r.StartColumn < 1 || r.EndLine < 1 || r.EndColumn < 1 {
		return false
	}
	return !r.End().Before(r.Start())
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start(), r.End())
}
