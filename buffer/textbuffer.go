package buffer

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// TextBuffer is an in-memory Sink implementation.
//
// It is the reference document model used by the demo viewer and by tests.
// Content is stored as a flat string with a rebuilt line-start index; the
// documents this library targets are widget-sized, so index rebuilds are
// cheaper than maintaining a rope.
//
// All methods are safe for concurrent use. Content-changed listeners are
// invoked after the mutation, outside the buffer lock.
type TextBuffer struct {
	mu         sync.Mutex
	content    string
	lineStarts []int
	tag        string

	nextListener int
	listeners    map[int]func()
}

// NewTextBuffer creates a text buffer with the given options.
func NewTextBuffer(opts ...TextBufferOption) *TextBuffer {
	b := &TextBuffer{
		lineStarts: []int{0},
		listeners:  make(map[int]func()),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.reindex()
	return b
}

// reindex rebuilds the line-start index (must hold lock, or be pre-publish).
func (b *TextBuffer) reindex() {
	starts := b.lineStarts[:0]
	starts = append(starts, 0)
	for i := 0; i < len(b.content); i++ {
		if b.content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

// Value returns the full document content.
func (b *TextBuffer) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// SetValue replaces the entire document content.
func (b *TextBuffer) SetValue(content string) {
	b.mu.Lock()
	b.content = content
	b.reindex()
	listeners := b.snapshotListenersLocked()
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Len returns the content length in bytes.
func (b *TextBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.content)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *TextBuffer) LineCount() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the text of a 1-based line, without its newline.
func (b *TextBuffer) LineText(line uint32) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, end, ok := b.lineSpanLocked(line)
	if !ok {
		return ""
	}
	return b.content[start:end]
}

// LineEndColumn returns the column just past the last character of a line.
func (b *TextBuffer) LineEndColumn(line uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, end, ok := b.lineSpanLocked(line)
	if !ok {
		return 1
	}
	return uint32(end-start) + 1
}

// LineWidth returns the terminal cell width of a line, for renderers.
func (b *TextBuffer) LineWidth(line uint32) int {
	return uniseg.StringWidth(b.LineText(line))
}

// lineSpanLocked returns the byte span of a line's text, excluding the
// trailing newline (must hold lock).
func (b *TextBuffer) lineSpanLocked(line uint32) (start, end int, ok bool) {
	if line < 1 || int(line) > len(b.lineStarts) {
		return 0, 0, false
	}
	start = b.lineStarts[line-1]
	if int(line) < len(b.lineStarts) {
		end = b.lineStarts[line] - 1 // strip '\n'
	} else {
		end = len(b.content)
	}
	return start, end, true
}

// ApplyEdit replaces the text covered by r with text.
func (b *TextBuffer) ApplyEdit(r Range, text string) error {
	b.mu.Lock()

	if !r.IsValid() {
		b.mu.Unlock()
		return ErrRangeInvalid
	}

	startOff, err := b.offsetLocked(r.Start())
	if err != nil {
		b.mu.Unlock()
		return err
	}
	endOff, err := b.offsetLocked(r.End())
	if err != nil {
		b.mu.Unlock()
		return err
	}
	if startOff > endOff {
		b.mu.Unlock()
		return ErrRangeInvalid
	}

	var sb strings.Builder
	sb.Grow(len(b.content) - (endOff - startOff) + len(text))
	sb.WriteString(b.content[:startOff])
	sb.WriteString(text)
	sb.WriteString(b.content[endOff:])
	b.content = sb.String()
	b.reindex()

	listeners := b.snapshotListenersLocked()
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// offsetLocked converts a position to a byte offset (must hold lock).
// The position may sit at the end column of a line but not past it; the
// newline itself is addressed as the end column of its line.
func (b *TextBuffer) offsetLocked(p Position) (int, error) {
	if p.Line < 1 || int(p.Line) > len(b.lineStarts) {
		return 0, ErrLineOutOfRange
	}
	start, end, _ := b.lineSpanLocked(p.Line)
	if p.Column < 1 || int(p.Column) > end-start+1 {
		return 0, ErrRangeInvalid
	}
	return start + int(p.Column) - 1, nil
}

// Tag returns the content tag.
func (b *TextBuffer) Tag() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tag
}

// SetTag updates the content tag.
func (b *TextBuffer) SetTag(tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tag = tag
}

// OnContentChanged registers fn to run after every content mutation.
func (b *TextBuffer) OnContentChanged(fn func()) (remove func()) {
	b.mu.Lock()
	id := b.nextListener
	b.nextListener++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// snapshotListenersLocked copies the listener set (must hold lock).
func (b *TextBuffer) snapshotListenersLocked() []func() {
	if len(b.listeners) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	return fns
}
