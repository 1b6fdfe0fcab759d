// Package chat generates model responses for chat completions and run
// executions, backed by a Genkit model.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// StreamFunc receives one response delta at a time, in order. Returning
// an error aborts generation.
type StreamFunc func(delta string) error

// Completer generates chat responses. Safe for concurrent use.
type Completer struct {
	genkit    *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// NewCompleter creates a Completer for the given model. logger may be nil.
func NewCompleter(g *genkit.Genkit, modelName string, logger *slog.Logger) *Completer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{genkit: g, modelName: modelName, logger: logger}
}

// Complete generates a single response for the conversation.
func (c *Completer) Complete(ctx context.Context, messages []openai.ChatMessage) (string, error) {
	return c.generate(ctx, messages, nil)
}

// Stream generates a response, delivering deltas through stream as they
// arrive, and returns the full response text. Deltas are forward-only;
// the concatenation of all deltas equals the returned text.
func (c *Completer) Stream(ctx context.Context, messages []openai.ChatMessage, stream StreamFunc) (string, error) {
	return c.generate(ctx, messages, stream)
}

func (c *Completer) generate(ctx context.Context, messages []openai.ChatMessage, stream StreamFunc) (string, error) {
	opts := []ai.GenerateOption{
		ai.WithModelName(c.modelName),
		ai.WithMessages(toGenkitMessages(messages)...),
	}
	if stream != nil {
		opts = append(opts, ai.WithStreaming(func(_ context.Context, chunk *ai.ModelResponseChunk) error {
			return stream(chunk.Text())
		}))
	}

	resp, err := genkit.Generate(ctx, c.genkit, opts...)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("model returned empty response", "model", c.modelName)
	}
	return text, nil
}

// toGenkitMessages maps API roles onto Genkit messages. Unknown roles are
// treated as user messages.
func toGenkitMessages(messages []openai.ChatMessage) []*ai.Message {
	out := make([]*ai.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, ai.NewSystemMessage(ai.NewTextPart(m.Content)))
		case "assistant":
			out = append(out, ai.NewModelMessage(ai.NewTextPart(m.Content)))
		default:
			out = append(out, ai.NewUserMessage(ai.NewTextPart(m.Content)))
		}
	}
	return out
}
