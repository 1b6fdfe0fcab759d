// Package storage provides the file object store: raw uploaded bytes keyed
// by file id, scoped to the uploading tenant.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lodestone-ai/lodestone/internal/sqlc"
)

// ErrNotFound indicates no stored bytes exist for the file id and tenant.
var ErrNotFound = errors.New("file not found in bucket")

// Querier defines the database operations the bucket needs.
type Querier interface {
	UpsertFileBucket(ctx context.Context, arg sqlc.UpsertFileBucketParams) error
	GetFileBucket(ctx context.Context, arg sqlc.GetFileBucketParams) ([]byte, error)
	DeleteFileBucket(ctx context.Context, arg sqlc.DeleteFileBucketParams) (int64, error)
}

// Bucket stores raw file bytes in PostgreSQL. Safe for concurrent use.
type Bucket struct {
	queries Querier
	logger  *slog.Logger
}

// NewBucket creates a Bucket over the given querier. logger may be nil.
func NewBucket(querier Querier, logger *slog.Logger) *Bucket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bucket{queries: querier, logger: logger}
}

// Upload stores (or replaces) the bytes for a file id.
func (b *Bucket) Upload(ctx context.Context, fileID string, tenantID uuid.UUID, data []byte) error {
	err := b.queries.UpsertFileBucket(ctx, sqlc.UpsertFileBucketParams{
		FileID: fileID,
		UserID: tenantID,
		Data:   data,
	})
	if err != nil {
		return fmt.Errorf("uploading file %q: %w", fileID, err)
	}

	b.logger.Debug("uploaded file bytes", "file_id", fileID, "bytes", len(data))
	return nil
}

// Download returns the stored bytes for a file id.
// Returns ErrNotFound if the tenant has no such file.
func (b *Bucket) Download(ctx context.Context, fileID string, tenantID uuid.UUID) ([]byte, error) {
	data, err := b.queries.GetFileBucket(ctx, sqlc.GetFileBucketParams{
		FileID: fileID,
		UserID: tenantID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("downloading file %q: %w", fileID, err)
	}
	return data, nil
}

// Delete removes the stored bytes for a file id. Returns whether any row
// was removed.
func (b *Bucket) Delete(ctx context.Context, fileID string, tenantID uuid.UUID) (bool, error) {
	n, err := b.queries.DeleteFileBucket(ctx, sqlc.DeleteFileBucketParams{
		FileID: fileID,
		UserID: tenantID,
	})
	if err != nil {
		return false, fmt.Errorf("deleting file %q: %w", fileID, err)
	}
	return n > 0, nil
}
