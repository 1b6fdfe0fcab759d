// Package vectorstore persists embedded document chunks in PostgreSQL and
// serves similarity search over them using pgvector.
//
// Every row carries the tenant that created it, and every query filters by
// both tenant and vector store id. Tenant scoping lives here, at the
// storage boundary, rather than in the domain types.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/lodestone-ai/lodestone/internal/sqlc"
)

// DefaultTopK is the similarity search result count when the caller does
// not specify one.
const DefaultTopK = 4

// Querier defines the database operations the store needs.
// Interfaces are defined by the consumer; *sqlc.Queries satisfies this.
type Querier interface {
	InsertVector(ctx context.Context, arg sqlc.InsertVectorParams) (uuid.UUID, error)
	DeleteVectors(ctx context.Context, arg sqlc.DeleteVectorsParams) (int64, error)
	MatchVectors(ctx context.Context, arg sqlc.MatchVectorsParams) ([]sqlc.MatchVectorsRow, error)
}

// Vector is one chunk ready for persistence: content, chunk metadata, and
// its embedding.
type Vector struct {
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// Match is one similarity search result, best matches first.
type Match struct {
	ID         string
	FileID     string
	Content    string
	Metadata   map[string]string
	Similarity float64
}

// Store is the vector store adapter. Safe for concurrent use.
type Store struct {
	queries Querier
	logger  *slog.Logger
}

// New creates a Store over the given querier. logger may be nil.
func New(querier Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{queries: querier, logger: logger}
}

// AddVectors inserts one row per vector and returns the assigned row ids
// in input order. The insert is not transactional across rows; a failure
// part-way leaves earlier rows in place, and the caller is expected to
// record the file as failed (its rows are removed by DeleteVectors).
func (s *Store) AddVectors(ctx context.Context, storeID, fileID string, tenantID uuid.UUID, vectors []Vector) ([]string, error) {
	ids := make([]string, 0, len(vectors))

	for i, v := range vectors {
		metadataJSON, err := json.Marshal(v.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshaling metadata for chunk %d: %w", i, err)
		}

		embedding := pgvector.NewVector(v.Embedding)
		id, err := s.queries.InsertVector(ctx, sqlc.InsertVectorParams{
			UserID:        tenantID,
			VectorStoreID: storeID,
			FileID:        fileID,
			Content:       v.Content,
			Metadata:      metadataJSON,
			Embedding:     &embedding,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting vector %d for file %q: %w", i, fileID, err)
		}
		ids = append(ids, id.String())
	}

	s.logger.Debug("added vectors", "vector_store_id", storeID, "file_id", fileID, "count", len(ids))
	return ids, nil
}

// DeleteVectors removes all rows for the (vector store, file) pair owned
// by the tenant. Returns whether any row was removed.
func (s *Store) DeleteVectors(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (bool, error) {
	n, err := s.queries.DeleteVectors(ctx, sqlc.DeleteVectorsParams{
		VectorStoreID: storeID,
		FileID:        fileID,
		UserID:        tenantID,
	})
	if err != nil {
		return false, fmt.Errorf("deleting vectors for file %q: %w", fileID, err)
	}

	s.logger.Debug("deleted vectors", "vector_store_id", storeID, "file_id", fileID, "rows", n)
	return n > 0, nil
}

// SimilaritySearch returns up to k rows nearest to the query embedding by
// cosine distance, scoped to the tenant and vector store, best match
// first. k <= 0 uses DefaultTopK.
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, storeID string, tenantID uuid.UUID, k int) ([]Match, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	query := pgvector.NewVector(embedding)
	rows, err := s.queries.MatchVectors(ctx, sqlc.MatchVectorsParams{
		QueryEmbedding: &query,
		UserID:         tenantID,
		VectorStoreID:  storeID,
		MatchLimit:     int32(k),
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search in store %q: %w", storeID, err)
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		var metadata map[string]string
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			s.logger.Warn("failed to parse vector metadata", "id", row.ID, "error", err)
			metadata = make(map[string]string)
		}

		matches = append(matches, Match{
			ID:         row.ID.String(),
			FileID:     row.FileID,
			Content:    row.Content,
			Metadata:   metadata,
			Similarity: row.Similarity,
		})
	}

	return matches, nil
}
