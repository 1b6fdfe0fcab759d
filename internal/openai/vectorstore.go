package openai

// VectorStoreStatus is the lifecycle status of a vector store.
type VectorStoreStatus string

const (
	VectorStoreStatusInProgress VectorStoreStatus = "in_progress"
	VectorStoreStatusCompleted  VectorStoreStatus = "completed"
	VectorStoreStatusExpired    VectorStoreStatus = "expired"
	VectorStoreStatusFailed     VectorStoreStatus = "failed"
)

// VectorStoreFileStatus is the lifecycle status of a file within a vector store.
// completed and failed are terminal.
type VectorStoreFileStatus string

const (
	VectorStoreFileStatusInProgress VectorStoreFileStatus = "in_progress"
	VectorStoreFileStatusCompleted  VectorStoreFileStatus = "completed"
	VectorStoreFileStatusFailed     VectorStoreFileStatus = "failed"
	VectorStoreFileStatusCancelled  VectorStoreFileStatus = "cancelled"
)

// FileCounts aggregates per-status file counts for a vector store.
// Total always equals the number of vector store file rows for the store.
type FileCounts struct {
	Cancelled  int64 `json:"cancelled"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	InProgress int64 `json:"in_progress"`
	Total      int64 `json:"total"`
}

// ExpiresAfter is a vector store expiration policy anchored to last activity.
type ExpiresAfter struct {
	// Anchor is always "last_active_at".
	Anchor string `json:"anchor"`
	Days   int64  `json:"days"`
}

// VectorStore is an OpenAI-compatible vector store object.
type VectorStore struct {
	ID           string            `json:"id"`
	Object       string            `json:"object"` // "vector_store"
	CreatedAt    int64             `json:"created_at"`
	Name         string            `json:"name"`
	Status       VectorStoreStatus `json:"status"`
	FileCounts   FileCounts        `json:"file_counts"`
	UsageBytes   int64             `json:"usage_bytes"`
	ExpiresAfter *ExpiresAfter     `json:"expires_after,omitempty"`
	ExpiresAt    *int64            `json:"expires_at,omitempty"`
	LastActiveAt *int64            `json:"last_active_at,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// LastError describes why a vector store file failed.
type LastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VectorStoreFile is an OpenAI-compatible vector store file object.
// Its ID equals the underlying file object's ID.
type VectorStoreFile struct {
	ID            string                `json:"id"`
	Object        string                `json:"object"` // "vector_store.file"
	CreatedAt     int64                 `json:"created_at"`
	VectorStoreID string                `json:"vector_store_id"`
	Status        VectorStoreFileStatus `json:"status"`
	LastError     *LastError            `json:"last_error,omitempty"`
	UsageBytes    int64                 `json:"usage_bytes"`
}

// VectorStoreFileDeleted is the deletion acknowledgement envelope.
type VectorStoreFileDeleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"` // "vector_store.file.deleted"
	Deleted bool   `json:"deleted"`
}
