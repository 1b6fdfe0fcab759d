package rag

import (
	"encoding/json"

	"github.com/lodestone-ai/lodestone/internal/openai"
	"github.com/lodestone-ai/lodestone/internal/sqlc"
)

// vectorStoreFromRow converts a database row into the API object. Malformed
// JSONB columns degrade to zero values rather than failing the request.
func vectorStoreFromRow(row sqlc.VectorStore) openai.VectorStore {
	vs := openai.VectorStore{
		ID:         row.ID,
		Object:     openai.ObjectVectorStore,
		Name:       row.Name,
		Status:     openai.VectorStoreStatus(row.Status),
		UsageBytes: row.UsageBytes,
	}

	if row.CreatedAt.Valid {
		vs.CreatedAt = row.CreatedAt.Time.Unix()
	}
	if len(row.FileCounts) > 0 {
		_ = json.Unmarshal(row.FileCounts, &vs.FileCounts)
	}
	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &vs.Metadata)
	}
	if row.ExpiresAfterDays.Valid {
		vs.ExpiresAfter = &openai.ExpiresAfter{
			Anchor: "last_active_at",
			Days:   row.ExpiresAfterDays.Int64,
		}
	}
	if row.ExpiresAt.Valid {
		expiresAt := row.ExpiresAt.Time.Unix()
		vs.ExpiresAt = &expiresAt
	}
	if row.LastActiveAt.Valid {
		lastActiveAt := row.LastActiveAt.Time.Unix()
		vs.LastActiveAt = &lastActiveAt
	}

	return vs
}

func vectorStoreFileFromRow(row sqlc.VectorStoreFile) openai.VectorStoreFile {
	vsf := openai.VectorStoreFile{
		ID:            row.ID,
		Object:        openai.ObjectVectorStoreFile,
		VectorStoreID: row.VectorStoreID,
		Status:        openai.VectorStoreFileStatus(row.Status),
		UsageBytes:    row.UsageBytes,
	}

	if row.CreatedAt.Valid {
		vsf.CreatedAt = row.CreatedAt.Time.Unix()
	}
	if len(row.LastError) > 0 {
		var lastErr openai.LastError
		if err := json.Unmarshal(row.LastError, &lastErr); err == nil && lastErr.Code != "" {
			vsf.LastError = &lastErr
		}
	}

	return vsf
}
