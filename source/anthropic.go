package source

import (
	"context"
	"io"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// Anthropic adapts an Anthropic Messages stream to a TokenSource,
// yielding text deltas as they arrive.
type Anthropic struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// NewAnthropic starts a streaming message request and wraps it as a
// TokenSource.
func NewAnthropic(ctx context.Context, client anthropic.Client, model, prompt string, maxTokens int64) *Anthropic {
	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	return &Anthropic{stream: stream}
}

// Next returns the next text delta, io.EOF on stream completion, or the
// stream error.
func (a *Anthropic) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for a.stream.Next() {
		event := a.stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text != "" {
					return delta.Text, nil
				}
			}
		}
	}

	if err := a.stream.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
