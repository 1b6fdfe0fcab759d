// Package embedding wraps a remote embedding backend behind a small
// batching client. The backend is a Genkit ai.Embedder, injected by the
// application wiring so tests can substitute a double without global state.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/time/rate"
)

// ErrBackend wraps any remote embedding failure. Callers decide whether it
// is fatal for the surrounding operation.
var ErrBackend = errors.New("embedding backend error")

// Client batches embedding requests against a remote backend.
// Safe for concurrent use.
type Client struct {
	embedder ai.Embedder
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient creates a client over the given embedder. rps limits request
// rate against the backend (0 = unlimited). logger may be nil.
func NewClient(embedder ai.Embedder, rps float64, burst int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}

	return &Client{
		embedder: embedder,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
	}
}

// EmbedDocuments embeds all texts in a single batched request and returns
// one vector per text, in input order. An empty input returns an empty
// result without touching the backend.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	input := make([]*ai.Document, len(texts))
	for i, text := range texts {
		input[i] = ai.DocumentFromText(text, nil)
	}

	resp, err := c.embed(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrBackend, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ErrBackend, i)
		}
		vectors[i] = emb.Embedding
	}

	c.logger.Debug("embedded documents", "count", len(texts), "dimension", len(vectors[0]))
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embed(ctx, []*ai.Document{ai.DocumentFromText(text, nil)})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding for query", ErrBackend)
	}

	return resp.Embeddings[0].Embedding, nil
}

func (c *Client) embed(ctx context.Context, input []*ai.Document) (*ai.EmbedResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	resp, err := c.embedder.Embed(ctx, &ai.EmbedRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	return resp, nil
}
