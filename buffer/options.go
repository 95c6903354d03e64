package buffer

// TextBufferOption configures a TextBuffer during creation.
type TextBufferOption func(*TextBuffer)

// WithContent sets the initial content of the buffer.
func WithContent(content string) TextBufferOption {
	return func(b *TextBuffer) {
		b.content = content
	}
}

// WithTag sets the initial content tag of the buffer.
func WithTag(tag string) TextBufferOption {
	return func(b *TextBuffer) {
		b.tag = tag
	}
}
