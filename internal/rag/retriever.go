package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/vectorstore"
)

// Searcher is the similarity search surface the retriever needs;
// *vectorstore.Store satisfies it.
type Searcher interface {
	SimilaritySearch(ctx context.Context, embedding []float32, storeID string, tenantID uuid.UUID, k int) ([]vectorstore.Match, error)
}

// Result is one retrieved chunk, ranked best match first. Index is the
// position within the result set.
type Result struct {
	Index      int               `json:"index"`
	FileID     string            `json:"file_id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float64           `json:"similarity"`
}

// Retriever answers similarity queries against an indexed vector store.
// Safe for concurrent use.
type Retriever struct {
	embedder Embedder
	searcher Searcher
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a Retriever. topK <= 0 uses the search default.
// logger may be nil.
func NewRetriever(embedder Embedder, searcher Searcher, topK int, logger *slog.Logger) *Retriever {
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

// Query embeds the query text and returns the nearest chunks from the
// given vector store, best match first. An empty or unindexed store
// yields an empty result set, not an error.
func (r *Retriever) Query(ctx context.Context, query, storeID string, tenantID uuid.UUID) ([]Result, error) {
	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := r.searcher.SimilaritySearch(ctx, embedding, storeID, tenantID, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching store %q: %w", storeID, err)
	}

	results := make([]Result, 0, len(matches))
	for i, m := range matches {
		results = append(results, Result{
			Index:      i,
			FileID:     m.FileID,
			Content:    m.Content,
			Metadata:   m.Metadata,
			Similarity: m.Similarity,
		})
	}

	r.logger.Debug("rag query", "vector_store_id", storeID, "results", len(results))
	return results, nil
}
