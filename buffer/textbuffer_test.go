package buffer

import (
	"errors"
	"testing"
)

func TestNewTextBufferEmpty(t *testing.T) {
	b := NewTextBuffer()

	if got := b.Value(); got != "" {
		t.Errorf("Value() = %q, want empty", got)
	}
	if got := b.LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
	if got := b.LineEndColumn(1); got != 1 {
		t.Errorf("LineEndColumn(1) = %d, want 1", got)
	}
}

func TestNewTextBufferWithOptions(t *testing.T) {
	b := NewTextBuffer(WithContent("a\nb"), WithTag("markdown"))

	if got := b.Value(); got != "a\nb" {
		t.Errorf("Value() = %q, want %q", got, "a\nb")
	}
	if got := b.LineCount(); got != 2 {
		t.Errorf("LineCount() = %d, want 2", got)
	}
	if got := b.Tag(); got != "markdown" {
		t.Errorf("Tag() = %q, want %q", got, "markdown")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    uint32
	}{
		{"empty", "", 1},
		{"single line", "hello", 1},
		{"trailing newline", "hello\n", 2},
		{"three lines", "a\nb\nc", 3},
		{"blank middle line", "a\n\nc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTextBuffer(WithContent(tt.content))
			if got := b.LineCount(); got != tt.want {
				t.Errorf("LineCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLineText(t *testing.T) {
	b := NewTextBuffer(WithContent("first\nsecond\n"))

	tests := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, ""},
		{4, ""}, // out of range
		{0, ""}, // out of range
	}

	for _, tt := range tests {
		if got := b.LineText(tt.line); got != tt.want {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLineEndColumn(t *testing.T) {
	b := NewTextBuffer(WithContent("ab\n\ncdef"))

	tests := []struct {
		line uint32
		want uint32
	}{
		{1, 3},
		{2, 1},
		{3, 5},
		{9, 1}, // out of range falls back to 1
	}

	for _, tt := range tests {
		if got := b.LineEndColumn(tt.line); got != tt.want {
			t.Errorf("LineEndColumn(%d) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestApplyEdit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		r       Range
		text    string
		want    string
	}{
		{
			name:    "insert at end",
			content: "hello",
			r:       At(Position{Line: 1, Column: 6}),
			text:    " world",
			want:    "hello world",
		},
		{
			name:    "insert at start",
			content: "world",
			r:       At(Position{Line: 1, Column: 1}),
			text:    "hello ",
			want:    "hello world",
		},
		{
			name:    "replace middle",
			content: "one two three",
			r:       NewRange(Position{Line: 1, Column: 5}, Position{Line: 1, Column: 8}),
			text:    "TWO",
			want:    "one TWO three",
		},
		{
			name:    "delete range",
			content: "abcdef",
			r:       NewRange(Position{Line: 1, Column: 3}, Position{Line: 1, Column: 5}),
			text:    "",
			want:    "abef",
		},
		{
			name:    "replace across newline",
			content: "ab\ncd",
			r:       NewRange(Position{Line: 1, Column: 2}, Position{Line: 2, Column: 2}),
			text:    "X",
			want:    "aXd",
		},
		{
			name:    "delete newline via end column",
			content: "ab\ncd",
			r:       NewRange(Position{Line: 1, Column: 3}, Position{Line: 2, Column: 1}),
			text:    "",
			want:    "abcd",
		},
		{
			name:    "append on later line",
			content: "a\nb",
			r:       At(Position{Line: 2, Column: 2}),
			text:    "c\nd",
			want:    "a\nbc\nd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTextBuffer(WithContent(tt.content))
			if err := b.ApplyEdit(tt.r, tt.text); err != nil {
				t.Fatalf("ApplyEdit() error = %v", err)
			}
			if got := b.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyEditErrors(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want error
	}{
		{
			name: "line out of range",
			r:    At(Position{Line: 5, Column: 1}),
			want: ErrLineOutOfRange,
		},
		{
			name: "column past line end",
			r:    At(Position{Line: 1, Column: 4}),
			want: ErrRangeInvalid,
		},
		{
			name: "zero column",
			r:    At(Position{Line: 1, Column: 0}),
			want: ErrRangeInvalid,
		},
		{
			name: "end before start",
			r:    NewRange(Position{Line: 1, Column: 3}, Position{Line: 1, Column: 1}),
			want: ErrRangeInvalid,
		},
	}

	b := NewTextBuffer(WithContent("ab"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.ApplyEdit(tt.r, "x")
			if !errors.Is(err, tt.want) {
				t.Errorf("ApplyEdit() error = %v, want %v", err, tt.want)
			}
			if got := b.Value(); got != "ab" {
				t.Errorf("failed edit mutated content: %q", got)
			}
		})
	}
}

func TestSetValueReindexes(t *testing.T) {
	b := NewTextBuffer(WithContent("one line"))
	b.SetValue("a\nb\nc")

	if got := b.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	if got := b.LineText(2); got != "b" {
		t.Errorf("LineText(2) = %q, want %q", got, "b")
	}
}

func TestOnContentChanged(t *testing.T) {
	b := NewTextBuffer()

	calls := 0
	remove := b.OnContentChanged(func() { calls++ })

	b.SetValue("x")
	if err := b.ApplyEdit(At(Position{Line: 1, Column: 2}), "y"); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	b.SetTag("go") // tag changes are not content changes

	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}

	remove()
	b.SetValue("z")
	if calls != 2 {
		t.Errorf("listener called %d times after remove, want 2", calls)
	}
}

func TestListenerNotCalledOnFailedEdit(t *testing.T) {
	b := NewTextBuffer(WithContent("ab"))

	calls := 0
	b.OnContentChanged(func() { calls++ })

	if err := b.ApplyEdit(At(Position{Line: 9, Column: 1}), "x"); err == nil {
		t.Fatal("ApplyEdit() expected error")
	}
	if calls != 0 {
		t.Errorf("listener called %d times on failed edit, want 0", calls)
	}
}

func TestLineWidth(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"ascii", "hello", 5},
		{"wide runes", "日本語", 6},
		{"mixed", "a日b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTextBuffer(WithContent(tt.content))
			if got := b.LineWidth(1); got != tt.want {
				t.Errorf("LineWidth(1) = %d, want %d", got, tt.want)
			}
		})
	}
}
