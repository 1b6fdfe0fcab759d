package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lodestone-ai/lodestone/internal/crud"
	"github.com/lodestone-ai/lodestone/internal/document"
	"github.com/lodestone-ai/lodestone/internal/openai"
	"github.com/lodestone-ai/lodestone/internal/sqlc"
	"github.com/lodestone-ai/lodestone/internal/vectorstore"
)

// Querier defines the vector store bookkeeping operations the indexer
// needs. *sqlc.Queries satisfies this.
type Querier interface {
	InsertVectorStore(ctx context.Context, arg sqlc.InsertVectorStoreParams) (sqlc.VectorStore, error)
	GetVectorStore(ctx context.Context, arg sqlc.GetVectorStoreParams) (sqlc.VectorStore, error)
	ListVectorStores(ctx context.Context, userID uuid.UUID) ([]sqlc.VectorStore, error)
	UpdateVectorStore(ctx context.Context, arg sqlc.UpdateVectorStoreParams) (sqlc.VectorStore, error)
	InsertVectorStoreFile(ctx context.Context, arg sqlc.InsertVectorStoreFileParams) (sqlc.VectorStoreFile, error)
	GetVectorStoreFile(ctx context.Context, arg sqlc.GetVectorStoreFileParams) (sqlc.VectorStoreFile, error)
	ListVectorStoreFiles(ctx context.Context, arg sqlc.ListVectorStoreFilesParams) ([]sqlc.VectorStoreFile, error)
	UpdateVectorStoreFile(ctx context.Context, arg sqlc.UpdateVectorStoreFileParams) (sqlc.VectorStoreFile, error)
	DeleteVectorStoreFile(ctx context.Context, arg sqlc.DeleteVectorStoreFileParams) (int64, error)
}

// VectorWriter is the vector persistence surface the indexer needs;
// *vectorstore.Store satisfies it.
type VectorWriter interface {
	AddVectors(ctx context.Context, storeID, fileID string, tenantID uuid.UUID, vectors []vectorstore.Vector) ([]string, error)
	DeleteVectors(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (bool, error)
}

// Embedder is the embedding surface the pipeline needs;
// *embedding.Client satisfies it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// FileBucket fetches raw uploaded bytes; *storage.Bucket satisfies it.
type FileBucket interface {
	Download(ctx context.Context, fileID string, tenantID uuid.UUID) ([]byte, error)
}

// FileObjects fetches file metadata; *crud.Store[openai.FileObject]
// satisfies it.
type FileObjects interface {
	Get(ctx context.Context, tenantID uuid.UUID, id string) (openai.FileObject, error)
}

// Loader turns a file on disk into extracted documents.
type Loader func(path string) ([]document.Document, error)

// Indexer orchestrates file indexing into vector stores.
// Safe for concurrent use; files within one CreateVectorStore call are
// indexed strictly one after another.
type Indexer struct {
	queries  Querier
	vectors  VectorWriter
	embedder Embedder
	bucket   FileBucket
	files    FileObjects
	chunker  *Chunker
	load     Loader
	logger   *slog.Logger
}

// NewIndexer creates an Indexer. load may be nil, in which case
// document.Load is used. logger may be nil.
func NewIndexer(queries Querier, vectors VectorWriter, embedder Embedder, bucket FileBucket, files FileObjects, chunker *Chunker, load Loader, logger *slog.Logger) *Indexer {
	if load == nil {
		load = document.Load
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		queries:  queries,
		vectors:  vectors,
		embedder: embedder,
		bucket:   bucket,
		files:    files,
		chunker:  chunker,
		load:     load,
		logger:   logger,
	}
}

// IndexFile indexes one uploaded file into a vector store and returns the
// final persisted vector store file state.
//
// The per-file state machine: a pre-existing row rejects with
// ErrAlreadyIndexed; a missing file aborts with ErrFileNotFound before any
// row is created; zero extracted chunks produces a terminal failed row
// with a parsing_error (a normal outcome, not an error); otherwise an
// in_progress row is created, chunks are embedded and stored, and the row
// moves to completed or failed. The terminal status is written even when
// embedding or storage fails mid-way, before the error is returned.
func (idx *Indexer) IndexFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (openai.VectorStoreFile, error) {
	if _, err := idx.queries.GetVectorStoreFile(ctx, sqlc.GetVectorStoreFileParams{
		VectorStoreID: storeID,
		ID:            fileID,
		UserID:        tenantID,
	}); err == nil {
		return openai.VectorStoreFile{}, fmt.Errorf("%w: file %q in store %q", ErrAlreadyIndexed, fileID, storeID)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return openai.VectorStoreFile{}, fmt.Errorf("checking existing vector store file: %w", err)
	}

	fileObject, err := idx.files.Get(ctx, tenantID, fileID)
	if err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return openai.VectorStoreFile{}, fmt.Errorf("%w: %q", ErrFileNotFound, fileID)
		}
		return openai.VectorStoreFile{}, fmt.Errorf("fetching file object %q: %w", fileID, err)
	}

	fileBytes, err := idx.bucket.Download(ctx, fileID, tenantID)
	if err != nil {
		return openai.VectorStoreFile{}, fmt.Errorf("%w: %q: %w", ErrFileNotFound, fileID, err)
	}

	chunks, err := idx.loadAndChunk(fileObject.Filename, fileBytes)
	if err != nil {
		return openai.VectorStoreFile{}, err
	}

	if len(chunks) == 0 {
		// No text found. A normal terminal outcome, recorded as a failed
		// file with a parsing error, not returned as an error.
		row, err := idx.queries.InsertVectorStoreFile(ctx, sqlc.InsertVectorStoreFileParams{
			ID:            fileID,
			VectorStoreID: storeID,
			UserID:        tenantID,
			Status:        string(openai.VectorStoreFileStatusFailed),
			LastError:     marshalLastError(&openai.LastError{Code: ErrorCodeParsing, Message: "No text found in file"}),
		})
		if err != nil {
			return openai.VectorStoreFile{}, mapInsertFileErr(err, storeID, fileID)
		}
		idx.logger.Info("file produced no chunks", "vector_store_id", storeID, "file_id", fileID)
		return vectorStoreFileFromRow(row), nil
	}

	if _, err := idx.queries.InsertVectorStoreFile(ctx, sqlc.InsertVectorStoreFileParams{
		ID:            fileID,
		VectorStoreID: storeID,
		UserID:        tenantID,
		Status:        string(openai.VectorStoreFileStatusInProgress),
	}); err != nil {
		return openai.VectorStoreFile{}, mapInsertFileErr(err, storeID, fileID)
	}

	status, lastError, usageBytes, indexErr := idx.storeChunks(ctx, storeID, fileID, tenantID, chunks)

	// The terminal status is written unconditionally, including on the
	// error path, so the failure is never silently lost.
	updated, updateErr := idx.queries.UpdateVectorStoreFile(ctx, sqlc.UpdateVectorStoreFileParams{
		VectorStoreID: storeID,
		ID:            fileID,
		UserID:        tenantID,
		Status:        string(status),
		LastError:     marshalLastError(lastError),
		UsageBytes:    usageBytes,
	})
	if indexErr != nil {
		if updateErr != nil {
			idx.logger.Error("failed to record terminal file status",
				"vector_store_id", storeID, "file_id", fileID, "error", updateErr)
		}
		return openai.VectorStoreFile{}, indexErr
	}
	if updateErr != nil {
		return openai.VectorStoreFile{}, fmt.Errorf("updating vector store file %q: %w", fileID, updateErr)
	}

	idx.logger.Info("indexed file",
		"vector_store_id", storeID, "file_id", fileID,
		"status", status, "chunks", len(chunks))
	return vectorStoreFileFromRow(updated), nil
}

// loadAndChunk writes the bytes to a temp file carrying the original
// extension (the loader selects its parser by extension) and splits the
// extracted documents into chunks.
func (idx *Indexer) loadAndChunk(filename string, fileBytes []byte) ([]Chunk, error) {
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp("", "lodestone-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	docs, err := idx.load(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("loading file %q: %w", filename, err)
	}

	return idx.chunker.Split(docs), nil
}

// storeChunks embeds all chunks in one batch and persists them, returning
// the terminal status to record. An adapter returning zero ids for a
// non-empty input counts as a failure of the whole file.
func (idx *Indexer) storeChunks(ctx context.Context, storeID, fileID string, tenantID uuid.UUID, chunks []Chunk) (openai.VectorStoreFileStatus, *openai.LastError, int64, error) {
	texts := make([]string, len(chunks))
	var usageBytes int64
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		usageBytes += int64(len(chunk.Content))
	}

	embeddings, err := idx.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return openai.VectorStoreFileStatusFailed,
			&openai.LastError{Code: ErrorCodeServer, Message: "embedding failed"},
			0, fmt.Errorf("embedding %d chunks for file %q: %w", len(chunks), fileID, err)
	}

	vectors := make([]vectorstore.Vector, len(chunks))
	for i, chunk := range chunks {
		vectors[i] = vectorstore.Vector{
			Content:   chunk.Content,
			Metadata:  chunk.Metadata,
			Embedding: embeddings[i],
		}
	}

	ids, err := idx.vectors.AddVectors(ctx, storeID, fileID, tenantID, vectors)
	if err != nil {
		return openai.VectorStoreFileStatusFailed,
			&openai.LastError{Code: ErrorCodeServer, Message: "vector storage failed"},
			0, fmt.Errorf("storing vectors for file %q: %w", fileID, err)
	}

	if len(ids) == 0 {
		return openai.VectorStoreFileStatusFailed,
			&openai.LastError{Code: ErrorCodeServer, Message: "no vectors stored"},
			0, nil
	}

	return openai.VectorStoreFileStatusCompleted, nil, usageBytes, nil
}

// CreateVectorStore creates a vector store and indexes the requested files
// sequentially. The store reaches completed once every file has been
// attempted, regardless of individual outcomes; file_counts reflects the
// terminal status of each attempted file.
func (idx *Indexer) CreateVectorStore(ctx context.Context, req openai.CreateVectorStoreRequest, tenantID uuid.UUID) (openai.VectorStore, error) {
	storeID := "vs_" + uuid.NewString()

	var expiresAfterDays pgtype.Int8
	var expiresAt pgtype.Timestamptz
	if req.ExpiresAfter != nil && req.ExpiresAfter.Days > 0 {
		expiresAfterDays = pgtype.Int8{Int64: req.ExpiresAfter.Days, Valid: true}
		expiresAt = pgtype.Timestamptz{
			Time:  time.Now().AddDate(0, 0, int(req.ExpiresAfter.Days)),
			Valid: true,
		}
	}

	metadataJSON, err := json.Marshal(req.Metadata)
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("%w: marshaling metadata: %w", ErrCreateVectorStore, err)
	}

	row, err := idx.queries.InsertVectorStore(ctx, sqlc.InsertVectorStoreParams{
		ID:               storeID,
		UserID:           tenantID,
		Name:             req.Name,
		Status:           string(openai.VectorStoreStatusInProgress),
		FileCounts:       marshalFileCounts(openai.FileCounts{}),
		ExpiresAfterDays: expiresAfterDays,
		ExpiresAt:        expiresAt,
		Metadata:         metadataJSON,
	})
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("%w: %w", ErrCreateVectorStore, err)
	}

	// Strictly sequential: bounds embedding-backend load and keeps
	// file_counts accounting simple. Individual file failures do not
	// abort the store; each file keeps its own terminal status.
	for _, fileID := range req.FileIDs {
		if _, err := idx.IndexFile(ctx, storeID, fileID, tenantID); err != nil {
			idx.logger.Warn("indexing file for new vector store failed",
				"vector_store_id", storeID, "file_id", fileID, "error", err)
		}
	}

	counts, usageBytes, err := idx.fileCounts(ctx, storeID, tenantID)
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("%w: %w", ErrCreateVectorStore, err)
	}

	updated, err := idx.queries.UpdateVectorStore(ctx, sqlc.UpdateVectorStoreParams{
		ID:               storeID,
		UserID:           tenantID,
		Name:             row.Name,
		Status:           string(openai.VectorStoreStatusCompleted),
		FileCounts:       marshalFileCounts(counts),
		UsageBytes:       usageBytes,
		ExpiresAfterDays: row.ExpiresAfterDays,
		ExpiresAt:        row.ExpiresAt,
		Metadata:         row.Metadata,
	})
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("%w: %w", ErrCreateVectorStore, err)
	}

	idx.logger.Info("created vector store",
		"vector_store_id", storeID,
		"files_total", counts.Total,
		"files_completed", counts.Completed,
		"files_failed", counts.Failed)
	return vectorStoreFromRow(updated), nil
}

// AttachFile indexes a file into an existing vector store and refreshes
// the store's file counts.
func (idx *Indexer) AttachFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (openai.VectorStoreFile, error) {
	store, err := idx.queries.GetVectorStore(ctx, sqlc.GetVectorStoreParams{ID: storeID, UserID: tenantID})
	if errors.Is(err, pgx.ErrNoRows) {
		return openai.VectorStoreFile{}, fmt.Errorf("%w: vector store %q", ErrFileNotFound, storeID)
	}
	if err != nil {
		return openai.VectorStoreFile{}, fmt.Errorf("fetching vector store %q: %w", storeID, err)
	}

	file, indexErr := idx.IndexFile(ctx, storeID, fileID, tenantID)

	// Refresh counts even when indexing failed; a failed row may exist.
	if err := idx.refreshCounts(ctx, store, tenantID); err != nil {
		idx.logger.Warn("refreshing file counts", "vector_store_id", storeID, "error", err)
	}

	return file, indexErr
}

// RemoveFile deletes a file's vectors and its vector store file row, then
// refreshes the store's counts. Returns whether the file row existed.
func (idx *Indexer) RemoveFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (bool, error) {
	store, err := idx.queries.GetVectorStore(ctx, sqlc.GetVectorStoreParams{ID: storeID, UserID: tenantID})
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%w: vector store %q", ErrFileNotFound, storeID)
	}
	if err != nil {
		return false, fmt.Errorf("fetching vector store %q: %w", storeID, err)
	}

	if _, err := idx.vectors.DeleteVectors(ctx, storeID, fileID, tenantID); err != nil {
		return false, err
	}

	n, err := idx.queries.DeleteVectorStoreFile(ctx, sqlc.DeleteVectorStoreFileParams{
		VectorStoreID: storeID,
		ID:            fileID,
		UserID:        tenantID,
	})
	if err != nil {
		return false, fmt.Errorf("deleting vector store file %q: %w", fileID, err)
	}

	if err := idx.refreshCounts(ctx, store, tenantID); err != nil {
		idx.logger.Warn("refreshing file counts", "vector_store_id", storeID, "error", err)
	}

	return n > 0, nil
}

// GetVectorStore returns the tenant's vector store by id.
func (idx *Indexer) GetVectorStore(ctx context.Context, storeID string, tenantID uuid.UUID) (openai.VectorStore, error) {
	row, err := idx.queries.GetVectorStore(ctx, sqlc.GetVectorStoreParams{ID: storeID, UserID: tenantID})
	if errors.Is(err, pgx.ErrNoRows) {
		return openai.VectorStore{}, fmt.Errorf("%w: vector store %q", ErrFileNotFound, storeID)
	}
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("fetching vector store %q: %w", storeID, err)
	}
	return vectorStoreFromRow(row), nil
}

// ListVectorStores returns all of the tenant's vector stores, newest first.
func (idx *Indexer) ListVectorStores(ctx context.Context, tenantID uuid.UUID) ([]openai.VectorStore, error) {
	rows, err := idx.queries.ListVectorStores(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing vector stores: %w", err)
	}

	stores := make([]openai.VectorStore, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, vectorStoreFromRow(row))
	}
	return stores, nil
}

// GetVectorStoreFile returns one vector store file row.
func (idx *Indexer) GetVectorStoreFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (openai.VectorStoreFile, error) {
	row, err := idx.queries.GetVectorStoreFile(ctx, sqlc.GetVectorStoreFileParams{
		VectorStoreID: storeID,
		ID:            fileID,
		UserID:        tenantID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return openai.VectorStoreFile{}, fmt.Errorf("%w: file %q in store %q", ErrFileNotFound, fileID, storeID)
	}
	if err != nil {
		return openai.VectorStoreFile{}, fmt.Errorf("fetching vector store file %q: %w", fileID, err)
	}
	return vectorStoreFileFromRow(row), nil
}

// ListVectorStoreFiles returns all files attached to a vector store.
func (idx *Indexer) ListVectorStoreFiles(ctx context.Context, storeID string, tenantID uuid.UUID) ([]openai.VectorStoreFile, error) {
	rows, err := idx.queries.ListVectorStoreFiles(ctx, sqlc.ListVectorStoreFilesParams{
		VectorStoreID: storeID,
		UserID:        tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("listing vector store files: %w", err)
	}

	files := make([]openai.VectorStoreFile, 0, len(rows))
	for _, row := range rows {
		files = append(files, vectorStoreFileFromRow(row))
	}
	return files, nil
}

// fileCounts aggregates per-status counts and usage from the store's file
// rows. Total always equals the row count, keeping the invariant that
// file_counts.total matches the number of vector store file rows.
func (idx *Indexer) fileCounts(ctx context.Context, storeID string, tenantID uuid.UUID) (openai.FileCounts, int64, error) {
	rows, err := idx.queries.ListVectorStoreFiles(ctx, sqlc.ListVectorStoreFilesParams{
		VectorStoreID: storeID,
		UserID:        tenantID,
	})
	if err != nil {
		return openai.FileCounts{}, 0, fmt.Errorf("listing vector store files: %w", err)
	}

	var counts openai.FileCounts
	var usageBytes int64
	for _, row := range rows {
		counts.Total++
		usageBytes += row.UsageBytes
		switch openai.VectorStoreFileStatus(row.Status) {
		case openai.VectorStoreFileStatusCompleted:
			counts.Completed++
		case openai.VectorStoreFileStatusFailed:
			counts.Failed++
		case openai.VectorStoreFileStatusCancelled:
			counts.Cancelled++
		case openai.VectorStoreFileStatusInProgress:
			counts.InProgress++
		}
	}
	return counts, usageBytes, nil
}

func (idx *Indexer) refreshCounts(ctx context.Context, store sqlc.VectorStore, tenantID uuid.UUID) error {
	counts, usageBytes, err := idx.fileCounts(ctx, store.ID, tenantID)
	if err != nil {
		return err
	}

	_, err = idx.queries.UpdateVectorStore(ctx, sqlc.UpdateVectorStoreParams{
		ID:               store.ID,
		UserID:           tenantID,
		Name:             store.Name,
		Status:           store.Status,
		FileCounts:       marshalFileCounts(counts),
		UsageBytes:       usageBytes,
		ExpiresAfterDays: store.ExpiresAfterDays,
		ExpiresAt:        store.ExpiresAt,
		Metadata:         store.Metadata,
	})
	return err
}

// mapInsertFileErr converts a unique violation on (vector_store_id, id)
// into ErrAlreadyIndexed. The pre-check in IndexFile is only a fast path;
// the constraint is what closes the concurrent-create race.
func mapInsertFileErr(err error, storeID, fileID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: file %q in store %q", ErrAlreadyIndexed, fileID, storeID)
	}
	return fmt.Errorf("creating vector store file %q: %w", fileID, err)
}

func marshalLastError(lastError *openai.LastError) []byte {
	if lastError == nil {
		return nil
	}
	data, err := json.Marshal(lastError)
	if err != nil {
		return nil
	}
	return data
}

func marshalFileCounts(counts openai.FileCounts) []byte {
	data, err := json.Marshal(counts)
	if err != nil {
		return []byte("{}")
	}
	return data
}
