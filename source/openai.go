package source

import (
	"context"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
)

// OpenAI adapts an OpenAI chat-completion stream to a TokenSource,
// yielding content deltas as they arrive.
type OpenAI struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

// NewOpenAI starts a streaming chat-completion request and wraps it as a
// TokenSource.
func NewOpenAI(ctx context.Context, client openai.Client, model, prompt string) *OpenAI {
	stream := client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	return &OpenAI{stream: stream}
}

// Next returns the next content delta, io.EOF on stream completion, or the
// stream error.
func (o *OpenAI) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for o.stream.Next() {
		chunk := o.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}

	if err := o.stream.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
