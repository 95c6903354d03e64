package source

import (
	"context"
	"errors"
	"io"
	"strings"
)

// TokenSource yields a stream of text fragments.
type TokenSource interface {
	// Next returns the next fragment. It returns io.EOF when the stream is
	// complete and may block until a fragment is available or ctx is done.
	Next(ctx context.Context) (string, error)
}

// SubmitFunc receives the accumulated content after each fragment.
// It matches the Submit method of a streamsync engine.
type SubmitFunc func(content, tag string)

// Pump drains src, submitting the growing accumulated content after every
// fragment. Each submission is a whole snapshot, so the engine's planner
// sees pure tail growth and takes its append fast path. Pump returns nil
// on a completed stream, or the first source or context error.
func Pump(ctx context.Context, src TokenSource, tag string, submit SubmitFunc) error {
	var sb strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fragment, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if fragment == "" {
			continue
		}

		sb.WriteString(fragment)
		submit(sb.String(), tag)
	}
}

// Slice is a TokenSource over a fixed fragment sequence, for replay and
// tests.
type Slice struct {
	fragments []string
	next      int
}

// NewSlice creates a source yielding the given fragments in order.
func NewSlice(fragments ...string) *Slice {
	return &Slice{fragments: fragments}
}

// Next returns the next fragment or io.EOF.
func (s *Slice) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.fragments) {
		return "", io.EOF
	}
	fragment := s.fragments[s.next]
	s.next++
	return fragment, nil
}

// Reader is a TokenSource that chunks an io.Reader, simulating a token
// stream from static content.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader creates a source yielding chunks of at most chunkSize bytes.
// Sizes below 1 are clamped to 1.
func NewReader(r io.Reader, chunkSize int) *Reader {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Reader{r: r, buf: make([]byte, chunkSize)}
}

// Next returns the next chunk or io.EOF.
func (r *Reader) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	n, err := r.r.Read(r.buf)
	if n > 0 {
		return string(r.buf[:n]), nil
	}
	if err == nil {
		err = io.EOF
	}
	return "", err
}
