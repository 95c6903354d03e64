package source

import (
	"context"
	"errors"
	"io"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

// Gemini adapts a Gemini content-generation stream to a TokenSource.
// Responses can carry several text parts; they are yielded one at a time.
type Gemini struct {
	iter    *genai.GenerateContentResponseIterator
	pending []string
}

// NewGemini starts a streaming generation request and wraps it as a
// TokenSource.
func NewGemini(ctx context.Context, client *genai.Client, model, prompt string) *Gemini {
	m := client.GenerativeModel(model)
	return &Gemini{iter: m.GenerateContentStream(ctx, genai.Text(prompt))}
}

// Next returns the next text part, io.EOF on stream completion, or the
// stream error.
func (g *Gemini) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for {
		if len(g.pending) > 0 {
			fragment := g.pending[0]
			g.pending = g.pending[1:]
			return fragment, nil
		}

		resp, err := g.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok && text != "" {
					g.pending = append(g.pending, string(text))
				}
			}
		}
	}
}
